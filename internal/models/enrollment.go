package models

// Enrollment is one committed student+modality pair as stored in the roster.
type Enrollment struct {
	// Position is the 1-based row position in the roster sheet, used for
	// deletion. Zero when the record has not been persisted yet.
	Position       int    `json:"position,omitempty"`
	Unit           string `json:"unit"`
	Student        string `json:"student"`
	RA             string `json:"ra"`
	Cohort         string `json:"cohort"`
	ModalityGender string `json:"modality_gender"`
	Modality       string `json:"modality"`
	ModalityUnit   string `json:"modality_unit"`
	Timestamp      string `json:"timestamp"`
	EnrolledBy     string `json:"enrolled_by"`
}

// Shortfall reports how many requested seats a modality could not supply.
type Shortfall struct {
	Modality  string `json:"modality"`
	Requested int    `json:"requested"`
	Remaining int    `json:"remaining"`
	Shortfall int    `json:"shortfall"`
}

// BatchValidation is the authoritative pre-commit check result for a batch.
// Closed lists picked modalities whose hard-close flag is set; commits of
// those picks always fail regardless of the seat balance.
type BatchValidation struct {
	OK         bool        `json:"ok"`
	Shortfalls []Shortfall `json:"shortfalls,omitempty"`
	Closed     []string    `json:"closed,omitempty"`
}

// CommitOutcome describes one attempted enrollment within a commit.
type CommitOutcome struct {
	Enrollment Enrollment `json:"enrollment"`
	Committed  bool       `json:"committed"`
	Reason     string     `json:"reason,omitempty"`
}

// CommitResult summarises a batch commit, including partial failures.
type CommitResult struct {
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Summary    string            `json:"summary"`
	Outcomes   []CommitOutcome   `json:"outcomes"`
	Shortfalls []Shortfall       `json:"shortfalls,omitempty"`
	Excluded   []ExcludedStudent `json:"excluded,omitempty"`
	Skipped    []SkippedPick     `json:"skipped,omitempty"`
}

// BatchPreview is the dry-run view of a commit: the expanded batch plus the
// capacity gate verdict.
type BatchPreview struct {
	Expansion  BatchExpansion  `json:"expansion"`
	Validation BatchValidation `json:"validation"`
}
