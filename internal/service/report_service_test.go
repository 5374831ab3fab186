package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

func TestReportServiceExportCSVFromStoredSheet(t *testing.T) {
	fx := newGradeFixture()
	svc := NewReportService(fx.svc, nil, nil)

	doc, err := svc.Export(context.Background(), "u1", "c1", "CSV", dto.GradeRowsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "grade_report_MAT101.csv", doc.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	assert.Equal(t, "#,Code,Student,Unit 1,Unit 2,Final\n"+
		"1,B,\"Álvarez, Luis\",2.40,0.00,1.20\n"+
		"2,A,\"Ruiz, Ana\",16.70,0.00,8.35\n", string(doc.Body))
}

func TestReportServiceExportUsesSubmittedRows(t *testing.T) {
	fx := newGradeFixture()
	svc := NewReportService(fx.svc, nil, nil)

	doc, err := svc.Export(context.Background(), "u1", "c1", "csv", dto.GradeRowsRequest{Rows: []dto.GradeRowInput{
		{StudentID: "s1", Cells: map[string][]string{"u1_cc": {"20"}, "u1_cp": {"20"}, "u1_ca": {"20"}, "u2_cc": {"20"}, "u2_cp": {"20"}, "u2_ca": {"20"}}},
	}})
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "2,A,\"Ruiz, Ana\",20.00,20.00,20.00\n")
}

func TestReportServiceExportRefusesInvalidScores(t *testing.T) {
	fx := newGradeFixture()
	svc := NewReportService(fx.svc, nil, nil)

	_, err := svc.Export(context.Background(), "u1", "c1", "pdf", dto.GradeRowsRequest{Rows: []dto.GradeRowInput{
		{StudentID: "s2", Cells: map[string][]string{"u2_cp": {"-1"}}},
	}})
	assert.Equal(t, appErrors.ErrInvalidScores.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportPDF(t *testing.T) {
	fx := newGradeFixture()
	svc := NewReportService(fx.svc, nil, nil)

	doc, err := svc.Export(context.Background(), "u1", "c1", "", dto.GradeRowsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF-")))

	_, err = svc.Export(context.Background(), "u1", "c1", "docx", dto.GradeRowsRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportFilenameSanitized(t *testing.T) {
	assert.Equal(t, "grade_report_MAT_101.pdf", reportFilename("MAT 101", "pdf"))
	assert.Equal(t, "grade_report_course.csv", reportFilename("//", "csv"))
}
