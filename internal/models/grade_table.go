package models

import "github.com/noah-isme/gradebook-api/internal/grading"

// GradeCell is one rendered score slot.
type GradeCell struct {
	Raw   string             `json:"raw"`
	State grading.ScoreState `json:"state"`
}

// CriterionView is the rendered slots of one key with their average.
type CriterionView struct {
	Slots    []GradeCell `json:"slots"`
	Average  float64     `json:"average"`
	HasGrade bool        `json:"has_grade"`
}

// GradeRowView is one student line of the grade table.
type GradeRowView struct {
	Ordinal   int                      `json:"ordinal"`
	StudentID string                   `json:"student_id"`
	Code      string                   `json:"code"`
	Name      string                   `json:"name"`
	Criteria  map[string]CriterionView `json:"criteria"`
	Unit1     float64                  `json:"unit1"`
	Unit2     float64                  `json:"unit2"`
	Final     float64                  `json:"final"`
	Band      grading.RiskBand         `json:"band"`
}

// GradeTable is the full grade sheet of a course as seen by one instructor.
type GradeTable struct {
	Course          Course                   `json:"course"`
	Weights         map[string]float64       `json:"weights"`
	DefaultsApplied bool                     `json:"defaults_applied"`
	Layout          map[string]int           `json:"layout"`
	Rows            []GradeRowView           `json:"rows"`
	Validation      grading.ValidationReport `json:"validation"`
}

// GradeSaveResult reports how many records a save wrote.
type GradeSaveResult struct {
	Students int `json:"students"`
	Records  int `json:"records"`
}
