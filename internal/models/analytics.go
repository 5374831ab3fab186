package models

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/grading"
)

// AnalyticsAllCourses selects every course in the grade overview.
const AnalyticsAllCourses = "all"

// ScoredStudent is a student placed in a performance band.
type ScoredStudent struct {
	StudentID  string  `json:"student_id"`
	CourseID   string  `json:"course_id"`
	CourseCode string  `json:"course_code"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}

// BandBreakdown classifies evaluated students into performance bands.
type BandBreakdown struct {
	TotalEvaluated int                      `json:"total_evaluated"`
	Counts         map[grading.RiskBand]int `json:"counts"`
	AtRisk         []ScoredStudent          `json:"at_risk"`
	Regular        []ScoredStudent          `json:"regular"`
	Outstanding    []ScoredStudent          `json:"outstanding"`
}

// UnitBreakdown is the band breakdown of one unit.
type UnitBreakdown struct {
	Unit int `json:"unit"`
	BandBreakdown
}

// GradeOverview is the analytics view of one course or all courses.
type GradeOverview struct {
	CourseID    string          `json:"course_id"`
	Courses     int             `json:"courses"`
	Students    int             `json:"students"`
	Units       []UnitBreakdown `json:"units"`
	Final       BandBreakdown   `json:"final"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// SystemMetrics is a JSON snapshot of the process instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	GradeRecordsSaved        uint64    `json:"grade_records_saved"`
	OperationsRefused        uint64    `json:"operations_refused"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
