package service

import (
	"strings"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
)

// Exclusion and skip reasons surfaced by batch expansion.
const (
	ReasonDuplicatePick    = "duplicate modality pick"
	ReasonStudentCap       = "student modality cap exceeded"
	ReasonAlreadyCommitted = "already committed"
	ReasonNoPick           = "no modality picked"
	ReasonUnknownStudent   = "not in student directory"
)

// BatchBuilder expands a selection session into the concrete student+modality
// pairs a commit would persist.
type BatchBuilder struct {
	studentCap int
}

// NewBatchBuilder constructs a builder. A cap of zero disables the
// per-student limit.
func NewBatchBuilder(studentCap int) *BatchBuilder {
	return &BatchBuilder{studentCap: studentCap}
}

// Expand walks every student's picks and produces the pending batch.
// Placeholder picks are dropped, picks the student already committed are
// skipped, a duplicated pick excludes the whole student, and a student whose
// total would exceed the cap is excluded as well.
func (b *BatchBuilder) Expand(session models.SelectionSession, committed []models.Enrollment) models.BatchExpansion {
	committedByStudent := make(map[string]map[string]bool)
	for _, enrollment := range committed {
		modalities, ok := committedByStudent[enrollment.RA]
		if !ok {
			modalities = make(map[string]bool)
			committedByStudent[enrollment.RA] = modalities
		}
		modalities[enrollment.Modality] = true
	}

	expansion := models.BatchExpansion{Pending: make([]models.PendingEnrollment, 0)}

	for _, selection := range session.Students {
		student := selection.Student
		seen := make(map[string]bool)
		newPicks := make([]string, 0, len(selection.Picks))
		duplicated := false
		var skipped []models.SkippedPick

		for _, pick := range selection.Picks {
			pick = strings.TrimSpace(pick)
			if pick == "" || pick == models.PickNone {
				continue
			}
			if seen[pick] {
				duplicated = true
				break
			}
			seen[pick] = true

			if committedByStudent[student.RA][pick] {
				skipped = append(skipped, models.SkippedPick{
					RA:       student.RA,
					Modality: pick,
					Reason:   ReasonAlreadyCommitted,
				})
				continue
			}
			newPicks = append(newPicks, pick)
		}

		if duplicated {
			expansion.Excluded = append(expansion.Excluded, models.ExcludedStudent{
				RA:     student.RA,
				Name:   student.Name,
				Reason: ReasonDuplicatePick,
			})
			continue
		}

		if b.studentCap > 0 {
			total := len(committedByStudent[student.RA]) + len(newPicks)
			if total > b.studentCap {
				expansion.Excluded = append(expansion.Excluded, models.ExcludedStudent{
					RA:     student.RA,
					Name:   student.Name,
					Reason: ReasonStudentCap,
				})
				continue
			}
		}

		expansion.Skipped = append(expansion.Skipped, skipped...)
		for _, pick := range newPicks {
			expansion.Pending = append(expansion.Pending, models.PendingEnrollment{
				Student:  student,
				Modality: pick,
			})
		}
	}

	return expansion
}
