package models

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/grading"
)

// WeightConfig is the persisted per-course weight configuration.
type WeightConfig struct {
	CourseID  string    `db:"course_id" json:"course_id"`
	U1CC      float64   `db:"u1_cc" json:"u1_cc"`
	U1CP      float64   `db:"u1_cp" json:"u1_cp"`
	U1CA      float64   `db:"u1_ca" json:"u1_ca"`
	U2CC      float64   `db:"u2_cc" json:"u2_cc"`
	U2CP      float64   `db:"u2_cp" json:"u2_cp"`
	U2CA      float64   `db:"u2_ca" json:"u2_ca"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Weights converts the stored columns into the canonical key order.
func (w WeightConfig) Weights() grading.Weights {
	return grading.Weights{w.U1CC, w.U1CP, w.U1CA, w.U2CC, w.U2CP, w.U2CA}
}

// NewWeightConfig builds a persisted configuration from weights.
func NewWeightConfig(courseID string, w grading.Weights, updatedAt time.Time) *WeightConfig {
	return &WeightConfig{
		CourseID:  courseID,
		U1CC:      w[0],
		U1CP:      w[1],
		U1CA:      w[2],
		U2CC:      w[3],
		U2CP:      w[4],
		U2CA:      w[5],
		UpdatedAt: updatedAt,
	}
}

// WeightConfigView is returned when reading a course configuration.
type WeightConfigView struct {
	CourseID        string             `json:"course_id"`
	Weights         map[string]float64 `json:"weights"`
	UnitSums        map[string]float64 `json:"unit_sums"`
	DefaultsApplied bool               `json:"defaults_applied"`
	Message         string             `json:"message"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
}
