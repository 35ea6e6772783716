package models

import "time"

// RollupFilter narrows the cross-unit enrollment report.
type RollupFilter struct {
	Units      []string `json:"units,omitempty" form:"units"`
	Modalities []string `json:"modalities,omitempty" form:"modalities"`
	Cohorts    []string `json:"cohorts,omitempty" form:"cohorts"`
	// Search matches student name or RA, case insensitive.
	Search string `json:"search,omitempty" form:"search"`
}

// RollupStats summarises the filtered report.
type RollupStats struct {
	Total      int            `json:"total"`
	ByUnit     map[string]int `json:"by_unit"`
	ByModality map[string]int `json:"by_modality"`
	ByCohort   map[string]int `json:"by_cohort"`
}

// RollupReport is the filtered cross-unit view plus its stats.
type RollupReport struct {
	Rows  []Enrollment `json:"rows"`
	Stats RollupStats  `json:"stats"`
}

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// Export job states.
const (
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusDone       = "done"
	ExportStatusFailed     = "failed"
)

// ExportRequest asks for an asynchronous rollup export.
type ExportRequest struct {
	Format string       `json:"format" validate:"required,oneof=csv pdf"`
	Filter RollupFilter `json:"filter"`
}

// ExportJob tracks one asynchronous export from request to download.
type ExportJob struct {
	ID            string       `json:"id"`
	Format        string       `json:"format"`
	Filter        RollupFilter `json:"filter"`
	Status        string       `json:"status"`
	FileName      string       `json:"file_name,omitempty"`
	DownloadToken string       `json:"download_token,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	Error         string       `json:"error,omitempty"`
	RequestedBy   string       `json:"requested_by"`
	CreatedAt     time.Time    `json:"created_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}
