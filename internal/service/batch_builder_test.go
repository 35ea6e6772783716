package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
)

func selection(ra, name string, picks ...string) models.StudentSelection {
	return models.StudentSelection{
		Student: models.Student{RA: ra, Unit: "Campinas", Cohort: "3A", Name: name},
		Picks:   picks,
	}
}

func TestExpandCrossProduct(t *testing.T) {
	builder := NewBatchBuilder(3)
	session := models.SelectionSession{
		Unit:       "Campinas",
		ActingUser: "maria",
		Students: []models.StudentSelection{
			selection("RA1", "João", "Natação", "Xadrez"),
			selection("RA2", "Lia", "Coral"),
		},
	}

	expansion := builder.Expand(session, nil)

	require.Len(t, expansion.Pending, 3)
	assert.Equal(t, "Natação", expansion.Pending[0].Modality)
	assert.Equal(t, "Xadrez", expansion.Pending[1].Modality)
	assert.Equal(t, "RA2", expansion.Pending[2].Student.RA)
	assert.Empty(t, expansion.Excluded)
}

func TestExpandSkipsPlaceholderPicks(t *testing.T) {
	builder := NewBatchBuilder(3)
	session := models.SelectionSession{
		Unit: "Campinas",
		Students: []models.StudentSelection{
			selection("RA1", "João", models.PickNone, "Natação", ""),
		},
	}

	expansion := builder.Expand(session, nil)

	require.Len(t, expansion.Pending, 1)
	assert.Equal(t, "Natação", expansion.Pending[0].Modality)
}

func TestExpandSkipsAlreadyCommittedPick(t *testing.T) {
	builder := NewBatchBuilder(3)
	session := models.SelectionSession{
		Unit: "Campinas",
		Students: []models.StudentSelection{
			selection("RA1", "João", "Natação", "Xadrez"),
		},
	}
	committed := []models.Enrollment{
		{RA: "RA1", Modality: "Natação"},
	}

	expansion := builder.Expand(session, committed)

	require.Len(t, expansion.Pending, 1)
	assert.Equal(t, "Xadrez", expansion.Pending[0].Modality)
	require.Len(t, expansion.Skipped, 1)
	assert.Equal(t, ReasonAlreadyCommitted, expansion.Skipped[0].Reason)
	assert.Empty(t, expansion.Excluded)
}

func TestExpandDuplicatePickExcludesStudent(t *testing.T) {
	builder := NewBatchBuilder(3)
	session := models.SelectionSession{
		Unit: "Campinas",
		Students: []models.StudentSelection{
			selection("RA1", "João", "Natação", "Natação"),
			selection("RA2", "Lia", "Coral"),
		},
	}

	expansion := builder.Expand(session, nil)

	require.Len(t, expansion.Pending, 1)
	assert.Equal(t, "RA2", expansion.Pending[0].Student.RA)
	require.Len(t, expansion.Excluded, 1)
	assert.Equal(t, "RA1", expansion.Excluded[0].RA)
	assert.Equal(t, ReasonDuplicatePick, expansion.Excluded[0].Reason)
}

func TestExpandStudentCapExceeded(t *testing.T) {
	builder := NewBatchBuilder(3)
	session := models.SelectionSession{
		Unit: "Campinas",
		Students: []models.StudentSelection{
			selection("RA1", "João", "Natação", "Xadrez"),
		},
	}
	committed := []models.Enrollment{
		{RA: "RA1", Modality: "Coral"},
		{RA: "RA1", Modality: "Judô"},
	}

	expansion := builder.Expand(session, committed)

	assert.Empty(t, expansion.Pending)
	require.Len(t, expansion.Excluded, 1)
	assert.Equal(t, ReasonStudentCap, expansion.Excluded[0].Reason)
}

func TestExpandCapDisabled(t *testing.T) {
	builder := NewBatchBuilder(0)
	session := models.SelectionSession{
		Unit: "Campinas",
		Students: []models.StudentSelection{
			selection("RA1", "João", "Natação", "Xadrez", "Coral"),
		},
	}
	committed := []models.Enrollment{
		{RA: "RA1", Modality: "Judô"},
		{RA: "RA1", Modality: "Teatro"},
	}

	expansion := builder.Expand(session, committed)

	assert.Len(t, expansion.Pending, 3)
	assert.Empty(t, expansion.Excluded)
}

func TestExpandCapCountsCommittedPickOnce(t *testing.T) {
	// A pick already committed is skipped, not double counted against the cap.
	builder := NewBatchBuilder(3)
	session := models.SelectionSession{
		Unit: "Campinas",
		Students: []models.StudentSelection{
			selection("RA1", "João", "Natação", "Xadrez"),
		},
	}
	committed := []models.Enrollment{
		{RA: "RA1", Modality: "Natação"},
		{RA: "RA1", Modality: "Coral"},
	}

	expansion := builder.Expand(session, committed)

	require.Len(t, expansion.Pending, 1)
	assert.Equal(t, "Xadrez", expansion.Pending[0].Modality)
	assert.Empty(t, expansion.Excluded)
}
