package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

type analyticsServiceMock struct {
	courseID string
	hit      bool
}

func (m *analyticsServiceMock) Overview(ctx context.Context, courseID string) (*models.GradeOverview, bool, error) {
	m.courseID = courseID
	return &models.GradeOverview{CourseID: courseID}, m.hit, nil
}

func TestAnalyticsHandlerGradesReportsCacheHit(t *testing.T) {
	mock := &analyticsServiceMock{hit: true}
	r := newTestRouter()
	r.GET("/analytics/grades", NewAnalyticsHandler(mock).Grades)

	w := doJSON(r, http.MethodGet, "/analytics/grades?courseId=c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", mock.courseID)

	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")
}

func TestAnalyticsHandlerNilService(t *testing.T) {
	r := newTestRouter()
	r.GET("/analytics/grades", NewAnalyticsHandler(nil).Grades)

	w := doJSON(r, http.MethodGet, "/analytics/grades", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
