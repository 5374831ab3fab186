package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type reportServiceMock struct {
	format string
	rows   int
}

func (m *reportServiceMock) Export(ctx context.Context, userID, courseID, format string, req dto.GradeRowsRequest) (*service.ReportDocument, error) {
	if format == "xml" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	m.format, m.rows = format, len(req.Rows)
	return &service.ReportDocument{Filename: "grade_report_mat101.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("#,Code\n")}, nil
}

func newReportRouter(mock *reportServiceMock) http.Handler {
	h := NewReportHandler(mock)
	r := newTestRouter()
	r.GET("/courses/:id/report", h.Stored)
	r.POST("/courses/:id/report", h.Edited)
	return r
}

func TestReportHandlerStoredStreamsAttachment(t *testing.T) {
	mock := &reportServiceMock{}
	w := doJSON(newReportRouter(mock), http.MethodGet, "/courses/c1/report?format=csv", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mock.format)
	assert.Equal(t, `attachment; filename="grade_report_mat101.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "#,Code\n", w.Body.String())
}

func TestReportHandlerEditedPassesRows(t *testing.T) {
	mock := &reportServiceMock{}
	payload := dto.GradeRowsRequest{Rows: []dto.GradeRowInput{{StudentID: "s1"}, {StudentID: "s2"}}}
	w := doJSON(newReportRouter(mock), http.MethodPost, "/courses/c1/report", payload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, mock.rows)
	assert.Empty(t, mock.format)
}

func TestReportHandlerUnknownFormat(t *testing.T) {
	w := doJSON(newReportRouter(&reportServiceMock{}), http.MethodGet, "/courses/c1/report?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
