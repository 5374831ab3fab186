package dto

// CreateStudentRequest is the payload of POST /courses/:id/students.
type CreateStudentRequest struct {
	Code      string `json:"code" validate:"required,max=64"`
	Surname   string `json:"surname" validate:"required,max=200"`
	GivenName string `json:"given_name" validate:"max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
}
