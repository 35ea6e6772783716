package repository

import (
	"context"
	"strings"
	"time"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// IdentityRepository resolves operator credentials against the authorized
// users sheet and records login events.
type IdentityRepository struct {
	store           roster.Store
	authorizedSheet string
	loginSheet      string
}

// NewIdentityRepository binds the repository to its sheets.
func NewIdentityRepository(store roster.Store, authorizedSheet, loginSheet string) *IdentityRepository {
	return &IdentityRepository{
		store:           store,
		authorizedSheet: authorizedSheet,
		loginSheet:      loginSheet,
	}
}

// FindByCredentials returns the operator whose email and phone both match.
func (r *IdentityRepository) FindByCredentials(ctx context.Context, email, phone string) (*models.AuthorizedUser, error) {
	rows, err := r.store.ReadRows(ctx, r.authorizedSheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	phone = normalizePhone(phone)

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		user, err := roster.ParseAuthorizedRow(row)
		if err != nil {
			return nil, err
		}
		if strings.ToLower(user.Email) == email && normalizePhone(user.Phone) == phone {
			return &user, nil
		}
	}
	return nil, errors.ErrInvalidCredentials
}

// LogAccess appends one login event to the access log sheet.
func (r *IdentityRepository) LogAccess(ctx context.Context, unit, name string, at time.Time) error {
	if err := r.store.AppendRow(ctx, r.loginSheet, roster.LoginRow(unit, name, at)); err != nil {
		return errors.Wrap(err, errors.ErrCollaborator.Code, errors.ErrCollaborator.Status, errors.ErrCollaborator.Message)
	}
	return nil
}

// normalizePhone strips formatting so stored and submitted numbers compare.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
