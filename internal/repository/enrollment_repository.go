package repository

import (
	"context"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// EnrollmentRepository reads and writes the committed enrollments sheet.
type EnrollmentRepository struct {
	store roster.Store
	sheet string
}

// NewEnrollmentRepository binds the repository to its sheet.
func NewEnrollmentRepository(store roster.Store, sheet string) *EnrollmentRepository {
	return &EnrollmentRepository{store: store, sheet: sheet}
}

// List returns every committed enrollment with its sheet position.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.Enrollment, error) {
	rows, err := r.store.ReadRows(ctx, r.sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}

	enrollments := make([]models.Enrollment, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		enrollment, err := roster.ParseEnrollmentRow(i+1, row)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, nil
}

// ListByUnit returns the committed enrollments for one unit.
func (r *EnrollmentRepository) ListByUnit(ctx context.Context, unit string) ([]models.Enrollment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Enrollment, 0, len(all))
	for _, enrollment := range all {
		if enrollment.Unit == unit {
			filtered = append(filtered, enrollment)
		}
	}
	return filtered, nil
}

// GetByPosition returns the enrollment stored at a sheet position.
func (r *EnrollmentRepository) GetByPosition(ctx context.Context, position int) (*models.Enrollment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Position == position {
			return &all[i], nil
		}
	}
	return nil, errors.Clone(errors.ErrNotFound, "enrollment not found")
}

// Append persists one enrollment.
func (r *EnrollmentRepository) Append(ctx context.Context, enrollment models.Enrollment) error {
	if err := r.store.AppendRow(ctx, r.sheet, roster.EnrollmentRow(enrollment)); err != nil {
		return errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}
	return nil
}

// Delete removes the enrollment at a sheet position.
func (r *EnrollmentRepository) Delete(ctx context.Context, position int) error {
	if err := r.store.DeleteRow(ctx, r.sheet, position); err != nil {
		return errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}
	return nil
}
