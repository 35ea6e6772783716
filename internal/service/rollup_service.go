package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
)

type enrollmentLister interface {
	List(ctx context.Context) ([]models.Enrollment, error)
}

// RollupService aggregates committed enrollments across every unit for the
// admin view.
type RollupService struct {
	enrollments enrollmentLister
	logger      *zap.Logger
}

// NewRollupService wires the service.
func NewRollupService(enrollments enrollmentLister, logger *zap.Logger) *RollupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollupService{enrollments: enrollments, logger: logger}
}

// Report returns the filtered cross-unit rows with aggregate stats.
func (s *RollupService) Report(ctx context.Context, filter models.RollupFilter) (*models.RollupReport, error) {
	all, err := s.enrollments.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Enrollment, 0, len(all))
	for _, enrollment := range all {
		if matchesFilter(enrollment, filter) {
			rows = append(rows, enrollment)
		}
	}

	stats := models.RollupStats{
		Total:      len(rows),
		ByUnit:     make(map[string]int),
		ByModality: make(map[string]int),
		ByCohort:   make(map[string]int),
	}
	for _, row := range rows {
		stats.ByUnit[row.Unit]++
		stats.ByModality[row.Modality]++
		stats.ByCohort[row.Cohort]++
	}

	return &models.RollupReport{Rows: rows, Stats: stats}, nil
}

func matchesFilter(e models.Enrollment, f models.RollupFilter) bool {
	if len(f.Units) > 0 && !contains(f.Units, e.Unit) {
		return false
	}
	if len(f.Modalities) > 0 && !contains(f.Modalities, e.Modality) {
		return false
	}
	if len(f.Cohorts) > 0 && !contains(f.Cohorts, e.Cohort) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Student), needle) &&
			!strings.Contains(strings.ToLower(e.RA), needle) {
			return false
		}
	}
	return true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
