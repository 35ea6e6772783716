package repository

import (
	"context"
	"time"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// ArchiveRepository appends tombstones for deleted enrollments.
type ArchiveRepository struct {
	store roster.Store
	sheet string
}

// NewArchiveRepository binds the repository to its sheet.
func NewArchiveRepository(store roster.Store, sheet string) *ArchiveRepository {
	return &ArchiveRepository{store: store, sheet: sheet}
}

// AppendTombstone records the deleted enrollment, who deleted it and when.
// The tombstone lands before the live row is removed so a crash between the
// two writes never loses the record.
func (r *ArchiveRepository) AppendTombstone(ctx context.Context, enrollment models.Enrollment, deletedBy string, at time.Time) error {
	if err := r.store.AppendRow(ctx, r.sheet, roster.TombstoneRow(enrollment, deletedBy, at)); err != nil {
		return errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}
	return nil
}
