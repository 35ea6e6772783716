package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

func seedAuthorized(store *roster.MemoryStore) {
	store.Seed("AUTORIZADOS", [][]string{
		{"Unidade", "Nome", "Cargo", "Email", "Telefone"},
		{"Campinas", "Maria", "-", "maria@escola.br", "(19) 99999-0000"},
	})
	store.Seed("LOGIN", [][]string{
		{"Unidade", "Nome", "Data"},
	})
}

func TestIdentityRepositoryFindByCredentials(t *testing.T) {
	store := roster.NewMemoryStore()
	seedAuthorized(store)
	repo := NewIdentityRepository(store, "AUTORIZADOS", "LOGIN")

	user, err := repo.FindByCredentials(context.Background(), "MARIA@escola.br", "19999990000")
	require.NoError(t, err)

	assert.Equal(t, "Campinas", user.Unit)
	assert.Equal(t, "Maria", user.Name)
}

func TestIdentityRepositoryInvalidCredentials(t *testing.T) {
	store := roster.NewMemoryStore()
	seedAuthorized(store)
	repo := NewIdentityRepository(store, "AUTORIZADOS", "LOGIN")

	_, err := repo.FindByCredentials(context.Background(), "maria@escola.br", "11111111111")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestIdentityRepositoryLogAccess(t *testing.T) {
	store := roster.NewMemoryStore()
	seedAuthorized(store)
	repo := NewIdentityRepository(store, "AUTORIZADOS", "LOGIN")
	ctx := context.Background()

	at := time.Date(2026, 8, 30, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.LogAccess(ctx, "Campinas", "Maria", at))

	rows, err := store.ReadRows(ctx, "LOGIN")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Campinas", "Maria", "30/08/2026 08:30:00"}, rows[1])
}
