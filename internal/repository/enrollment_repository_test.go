package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
)

func seedEnrollments(store *roster.MemoryStore) {
	store.Seed("INSCRITOS-UNIDADE", [][]string{
		{"Unidade", "Aluno", "RA", "Turma", "Gênero", "Modalidade", "Unidade da Modalidade", "Data", "Responsável"},
		{"Campinas", "João", "RA1", "3A", "M/F", "Natação", "Campinas", "01/08/2026 10:00:00", "maria"},
		{"Valinhos", "Lia", "RA2", "2B", "F", "Coral", "Valinhos", "01/08/2026 10:05:00", "paulo"},
	})
}

func TestEnrollmentRepositoryListPositions(t *testing.T) {
	store := roster.NewMemoryStore()
	seedEnrollments(store)
	repo := NewEnrollmentRepository(store, "INSCRITOS-UNIDADE")

	all, err := repo.List(context.Background())
	require.NoError(t, err)

	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Position)
	assert.Equal(t, 3, all[1].Position)
}

func TestEnrollmentRepositoryListByUnit(t *testing.T) {
	store := roster.NewMemoryStore()
	seedEnrollments(store)
	repo := NewEnrollmentRepository(store, "INSCRITOS-UNIDADE")

	campinas, err := repo.ListByUnit(context.Background(), "Campinas")
	require.NoError(t, err)

	require.Len(t, campinas, 1)
	assert.Equal(t, "João", campinas[0].Student)
}

func TestEnrollmentRepositoryAppendAndDelete(t *testing.T) {
	store := roster.NewMemoryStore()
	seedEnrollments(store)
	repo := NewEnrollmentRepository(store, "INSCRITOS-UNIDADE")
	ctx := context.Background()

	err := repo.Append(ctx, models.Enrollment{
		Timestamp: "02/08/2026 09:00:00",
		Unit:      "Campinas",
		RA:        "RA3",
		Cohort:    "1C",
		Student:   "Bia",
		Modality:  "Natação",
	})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, repo.Delete(ctx, all[0].Position))

	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "Lia", remaining[0].Student)
	assert.Equal(t, 2, remaining[0].Position)
}

func TestEnrollmentRepositoryGetByPositionMissing(t *testing.T) {
	store := roster.NewMemoryStore()
	seedEnrollments(store)
	repo := NewEnrollmentRepository(store, "INSCRITOS-UNIDADE")

	_, err := repo.GetByPosition(context.Background(), 42)
	assert.Error(t, err)
}
