package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/gradebook-api/internal/grading"
)

// GradeRecord stores the raw cell values of one student for one unit.
type GradeRecord struct {
	ID        string         `db:"id" json:"id"`
	StudentID string         `db:"student_id" json:"student_id"`
	CourseID  string         `db:"course_id" json:"course_id"`
	Unit      int            `db:"unit" json:"unit"`
	CC        pq.StringArray `db:"cc" json:"cc"`
	CP        pq.StringArray `db:"cp" json:"cp"`
	CA        pq.StringArray `db:"ca" json:"ca"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Slots returns the stored raw values of a criterion.
func (r GradeRecord) Slots(c grading.Criterion) []string {
	switch c {
	case grading.ContinuousAssessment:
		return r.CC
	case grading.Practice:
		return r.CP
	case grading.Attitude:
		return r.CA
	}
	return nil
}

// SetSlots replaces the raw values of a criterion.
func (r *GradeRecord) SetSlots(c grading.Criterion, values []string) {
	arr := pq.StringArray(append([]string{}, values...))
	switch c {
	case grading.ContinuousAssessment:
		r.CC = arr
	case grading.Practice:
		r.CP = arr
	case grading.Attitude:
		r.CA = arr
	}
}
