package repository

import (
	"context"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// StudentRepository reads the registered students sheet.
type StudentRepository struct {
	store roster.Store
	sheet string
}

// NewStudentRepository binds the repository to its sheet.
func NewStudentRepository(store roster.Store, sheet string) *StudentRepository {
	return &StudentRepository{store: store, sheet: sheet}
}

// ListByUnit returns the students registered for one unit.
func (r *StudentRepository) ListByUnit(ctx context.Context, unit string) ([]models.Student, error) {
	rows, err := r.store.ReadRows(ctx, r.sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}

	students := make([]models.Student, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		student, err := roster.ParseStudentRow(row)
		if err != nil {
			return nil, err
		}
		if student.Unit == unit {
			students = append(students, student)
		}
	}
	return students, nil
}

// FindByRA looks up one student within a unit.
func (r *StudentRepository) FindByRA(ctx context.Context, unit, ra string) (*models.Student, error) {
	students, err := r.ListByUnit(ctx, unit)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].RA == ra {
			return &students[i], nil
		}
	}
	return nil, errors.Clone(errors.ErrNotFound, "student not found")
}
