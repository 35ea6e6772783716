package repository

import (
	"context"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// ModalityRepository reads the modality catalogue sheet.
type ModalityRepository struct {
	store roster.Store
	sheet string
}

// NewModalityRepository binds the repository to its sheet.
func NewModalityRepository(store roster.Store, sheet string) *ModalityRepository {
	return &ModalityRepository{store: store, sheet: sheet}
}

// List returns every modality across all units.
func (r *ModalityRepository) List(ctx context.Context) ([]models.Modality, error) {
	rows, err := r.store.ReadRows(ctx, r.sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}

	modalities := make([]models.Modality, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		modality, err := roster.ParseModalityRow(row)
		if err != nil {
			return nil, err
		}
		modalities = append(modalities, modality)
	}
	return modalities, nil
}

// ListByUnit returns the modalities offered at one unit.
func (r *ModalityRepository) ListByUnit(ctx context.Context, unit string) ([]models.Modality, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Modality, 0, len(all))
	for _, modality := range all {
		if modality.Unit == unit {
			filtered = append(filtered, modality)
		}
	}
	return filtered, nil
}
