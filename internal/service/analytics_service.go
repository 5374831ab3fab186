package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type storedSheetSource interface {
	StoredSheet(ctx context.Context, courseID string) (*GradeSheet, error)
}

// AnalyticsService classifies evaluated students into performance bands,
// caching each overview until grades, weights or rosters change.
type AnalyticsService struct {
	courses courseLister
	sheets  storedSheetSource
	cache   *CacheService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewAnalyticsService constructs an analytics service. cache may be nil.
func NewAnalyticsService(courses courseLister, sheets storedSheetSource, cache *CacheService, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{courses: courses, sheets: sheets, cache: cache, ttl: ttl, logger: logger}
}

// Overview returns the band breakdown of one course, or of every course when
// courseID is empty or "all". The boolean reports a cache hit.
func (s *AnalyticsService) Overview(ctx context.Context, courseID string) (*models.GradeOverview, bool, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		courseID = models.AnalyticsAllCourses
	}
	cacheKey := makeAnalyticsCacheKey("grades", courseID)
	var cached models.GradeOverview
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	var sheets []*GradeSheet
	if courseID == models.AnalyticsAllCourses {
		courses, err := s.courses.List(ctx)
		if err != nil {
			s.logger.Error("list courses for analytics", zap.Error(err))
			return nil, false, appErrors.Internal(err, "failed to list courses")
		}
		for _, c := range courses {
			sheet, err := s.sheets.StoredSheet(ctx, c.ID)
			if err != nil {
				return nil, false, err
			}
			sheets = append(sheets, sheet)
		}
	} else {
		sheet, err := s.sheets.StoredSheet(ctx, courseID)
		if err != nil {
			return nil, false, err
		}
		sheets = append(sheets, sheet)
	}

	overview := Summarize(courseID, sheets)
	overview.GeneratedAt = time.Now().UTC()
	if err := s.cache.Set(ctx, cacheKey, overview, s.ttl); err != nil {
		s.logger.Warn("cache grade overview", zap.String("course_id", courseID), zap.Error(err))
	}
	return overview, false, nil
}

// InvalidateCourse drops the cached overview of a course and of all courses.
func (s *AnalyticsService) InvalidateCourse(ctx context.Context, courseID string) {
	keys := []string{makeAnalyticsCacheKey("grades", courseID), makeAnalyticsCacheKey("grades", models.AnalyticsAllCourses)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("invalidate grade overview", zap.String("course_id", courseID), zap.Error(err))
	}
}

// Summarize classifies every student whose record holds at least one grade,
// per unit by unit score and overall by final score.
func Summarize(courseID string, sheets []*GradeSheet) *models.GradeOverview {
	overview := &models.GradeOverview{CourseID: courseID, Courses: len(sheets)}
	units := make([]models.BandBreakdown, len(grading.Units))
	for i := range units {
		units[i] = newBreakdown()
	}
	final := newBreakdown()

	for _, sheet := range sheets {
		overview.Students += len(sheet.Students)
		for i, row := range sheet.Rows {
			st := sheet.Students[i]
			res := sheet.Session.Compute(row)
			base := models.ScoredStudent{
				StudentID:  st.ID,
				CourseID:   sheet.Course.ID,
				CourseCode: sheet.Course.Code,
				Code:       st.Code,
				Name:       st.DisplayName(),
			}
			graded := false
			for ui, u := range grading.Units {
				if !res.UnitHasGrade(u) {
					continue
				}
				graded = true
				addScored(&units[ui], base, res.Unit(u))
			}
			if graded {
				addScored(&final, base, res.Final)
			}
		}
	}

	for ui, u := range grading.Units {
		sortBreakdown(&units[ui])
		overview.Units = append(overview.Units, models.UnitBreakdown{Unit: int(u), BandBreakdown: units[ui]})
	}
	sortBreakdown(&final)
	overview.Final = final
	return overview
}

func newBreakdown() models.BandBreakdown {
	return models.BandBreakdown{
		Counts:      map[grading.RiskBand]int{grading.BandAtRisk: 0, grading.BandRegular: 0, grading.BandOutstanding: 0},
		AtRisk:      []models.ScoredStudent{},
		Regular:     []models.ScoredStudent{},
		Outstanding: []models.ScoredStudent{},
	}
}

func addScored(b *models.BandBreakdown, base models.ScoredStudent, score float64) {
	base.Score = grading.Round2(score)
	band := grading.Classify(score)
	b.TotalEvaluated++
	b.Counts[band]++
	switch band {
	case grading.BandAtRisk:
		b.AtRisk = append(b.AtRisk, base)
	case grading.BandOutstanding:
		b.Outstanding = append(b.Outstanding, base)
	default:
		b.Regular = append(b.Regular, base)
	}
}

func sortBreakdown(b *models.BandBreakdown) {
	for _, list := range [][]models.ScoredStudent{b.AtRisk, b.Regular, b.Outstanding} {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Score != list[j].Score {
				return list[i].Score > list[j].Score
			}
			return list[i].Name < list[j].Name
		})
	}
}

func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
