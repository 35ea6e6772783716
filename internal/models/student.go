package models

// Student is a registered student eligible for enrollment at a unit.
type Student struct {
	RA     string `json:"ra"`
	Unit   string `json:"unit"`
	Cohort string `json:"cohort"`
	Name   string `json:"name"`
}

// AuthorizedUser is an operator allowed to run enrollment for a unit.
type AuthorizedUser struct {
	Unit  string `json:"unit"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
