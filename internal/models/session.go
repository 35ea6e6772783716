package models

// StudentSelection holds the modality picks one student made in a session.
// Picks equal to PickNone are placeholders and carry no intent.
type StudentSelection struct {
	Student Student  `json:"student" validate:"required"`
	Picks   []string `json:"picks" validate:"required,max=3"`
}

// SelectionSession is a unit operator's in-progress set of selections before
// commit. Reservations implied by it are advisory only.
type SelectionSession struct {
	Unit       string             `json:"unit" validate:"required"`
	ActingUser string             `json:"acting_user" validate:"required"`
	Students   []StudentSelection `json:"students" validate:"required,min=1,dive"`
}

// PendingEnrollment is one concrete student+modality pair produced by
// expanding a selection session.
type PendingEnrollment struct {
	Student  Student `json:"student"`
	Modality string  `json:"modality"`
}

// BatchExpansion is the result of expanding a session, including per-student
// exclusions.
type BatchExpansion struct {
	Pending  []PendingEnrollment `json:"pending"`
	Excluded []ExcludedStudent   `json:"excluded,omitempty"`
	Skipped  []SkippedPick       `json:"skipped,omitempty"`
}

// ExcludedStudent names a student dropped from the batch and why.
type ExcludedStudent struct {
	RA     string `json:"ra"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SkippedPick names an individual pick dropped without excluding the student.
type SkippedPick struct {
	RA       string `json:"ra"`
	Modality string `json:"modality"`
	Reason   string `json:"reason"`
}
