package dto

// CourseRequest is the payload of POST /courses and PUT /courses/:id.
type CourseRequest struct {
	Code string `json:"code" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=200"`
	Term string `json:"term" validate:"required,max=64"`
}
