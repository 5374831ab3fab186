package dto

// WeightsRequest is the payload of PUT /courses/:id/weights, keyed u1_cc .. u2_ca.
type WeightsRequest struct {
	Weights map[string]*float64 `json:"weights" validate:"required,dive,required"`
}

// GradeRowInput carries the raw cell values of one student, keyed u1_cc .. u2_ca.
type GradeRowInput struct {
	StudentID string              `json:"student_id" validate:"required"`
	Cells     map[string][]string `json:"cells"`
}

// GradeRowsRequest is the payload of grade preview, save and export.
type GradeRowsRequest struct {
	Rows []GradeRowInput `json:"rows" validate:"dive"`
}

// SlotAdjustRequest adds (+1) or removes (-1) a score slot.
type SlotAdjustRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

// LayoutResponse exposes the slot layout of the current session.
type LayoutResponse struct {
	CourseID string         `json:"course_id"`
	Layout   map[string]int `json:"layout"`
}
