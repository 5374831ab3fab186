package models

import "time"

// Student belongs to exactly one course.
type Student struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Code      string    `db:"code" json:"code"`
	Surname   string    `db:"surname" json:"surname"`
	GivenName string    `db:"given_name" json:"given_name"`
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DisplayName renders "surname, given name", or the surname alone.
func (s Student) DisplayName() string {
	if s.GivenName == "" {
		return s.Surname
	}
	return s.Surname + ", " + s.GivenName
}

// RosterEntry is a student with its 1-based position in surname order.
type RosterEntry struct {
	Ordinal int `json:"ordinal"`
	Student
}

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
