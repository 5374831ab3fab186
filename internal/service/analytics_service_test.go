package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

func TestSummarizeClassifiesGradedStudents(t *testing.T) {
	fx := newGradeFixture()
	sheet, err := fx.svc.StoredSheet(context.Background(), "c1")
	require.NoError(t, err)

	overview := Summarize("c1", []*GradeSheet{sheet})
	assert.Equal(t, 1, overview.Courses)
	assert.Equal(t, 2, overview.Students)
	require.Len(t, overview.Units, 2)

	unit1 := overview.Units[0]
	assert.Equal(t, 1, unit1.Unit)
	assert.Equal(t, 2, unit1.TotalEvaluated)
	require.Len(t, unit1.Outstanding, 1)
	assert.Equal(t, "s1", unit1.Outstanding[0].StudentID)
	assert.Equal(t, 16.7, unit1.Outstanding[0].Score)
	require.Len(t, unit1.AtRisk, 1)
	assert.Equal(t, 2.4, unit1.AtRisk[0].Score)
	assert.Equal(t, 0, unit1.Counts[grading.BandRegular])

	assert.Equal(t, 0, overview.Units[1].TotalEvaluated)

	require.Len(t, overview.Final.AtRisk, 2)
	assert.Equal(t, "s1", overview.Final.AtRisk[0].StudentID)
	assert.Equal(t, 8.35, overview.Final.AtRisk[0].Score)
}

func TestAnalyticsServiceCachesAndInvalidates(t *testing.T) {
	fx := newGradeFixture()
	courses := newFakeCourseRepo(models.Course{ID: "c1", Code: "MAT101"})
	mem := newMemoryCache()
	cache := NewCacheService(mem, nil, time.Minute, zap.NewNop(), true)
	svc := NewAnalyticsService(courses, fx.svc, cache, time.Minute, nil)

	first, hit, err := svc.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, models.AnalyticsAllCourses, first.CourseID)

	_, hit, err = svc.Overview(context.Background(), "all")
	require.NoError(t, err)
	assert.True(t, hit)

	svc.InvalidateCourse(context.Background(), "c1")
	assert.Contains(t, mem.deleted, "analytics:grades:all")
	assert.Contains(t, mem.deleted, "analytics:grades:c1")

	_, hit, err = svc.Overview(context.Background(), "all")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestAnalyticsServiceUnknownCourse(t *testing.T) {
	fx := newGradeFixture()
	svc := NewAnalyticsService(newFakeCourseRepo(), fx.svc, nil, time.Minute, nil)

	_, _, err := svc.Overview(context.Background(), "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
