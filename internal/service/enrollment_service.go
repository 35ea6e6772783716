package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

type enrollmentStore interface {
	ListByUnit(ctx context.Context, unit string) ([]models.Enrollment, error)
	GetByPosition(ctx context.Context, position int) (*models.Enrollment, error)
	Append(ctx context.Context, enrollment models.Enrollment) error
	Delete(ctx context.Context, position int) error
}

type modalityCatalog interface {
	ListByUnit(ctx context.Context, unit string) ([]models.Modality, error)
}

type studentDirectory interface {
	ListByUnit(ctx context.Context, unit string) ([]models.Student, error)
}

type archiveStore interface {
	AppendTombstone(ctx context.Context, enrollment models.Enrollment, deletedBy string, at time.Time) error
}

type seatCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EnrollmentService expands selection sessions, gates them against seat
// capacity and persists the surviving pairs.
type EnrollmentService struct {
	enrollments enrollmentStore
	modalities  modalityCatalog
	students    studentDirectory
	archive     archiveStore
	cache       seatCacheInvalidator
	builder     *BatchBuilder
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewEnrollmentService wires the service. Logger and validator fall back to
// usable defaults when nil.
func NewEnrollmentService(
	enrollments enrollmentStore,
	modalities modalityCatalog,
	students studentDirectory,
	archive archiveStore,
	cache seatCacheInvalidator,
	studentCap int,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		modalities:  modalities,
		students:    students,
		archive:     archive,
		cache:       cache,
		builder:     NewBatchBuilder(studentCap),
		validate:    validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Preview expands the session and runs the capacity gate without writing
// anything. Operators use it to see shortfalls and exclusions before commit.
func (s *EnrollmentService) Preview(ctx context.Context, session models.SelectionSession) (*models.BatchPreview, error) {
	if err := s.validate.Struct(session); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, err.Error())
	}

	session, unknown, err := s.resolveStudents(ctx, session)
	if err != nil {
		return nil, err
	}
	committed, modalities, err := s.loadUnit(ctx, session.Unit)
	if err != nil {
		return nil, err
	}

	expansion := s.builder.Expand(session, committed)
	expansion.Excluded = append(unknown, expansion.Excluded...)
	ledger := NewCapacityLedger(modalities, committed)

	return &models.BatchPreview{
		Expansion:  expansion,
		Validation: ledger.ValidateBatch(expansion.Pending),
	}, nil
}

// Commit expands the session and persists as much of it as capacity allows.
// Pairs are committed in session order. When a modality runs out mid-batch
// the remainder of its requests fail with a shortfall and every other
// modality is unaffected. The result reports "N succeeded, M failed".
func (s *EnrollmentService) Commit(ctx context.Context, session models.SelectionSession) (*models.CommitResult, error) {
	if err := s.validate.Struct(session); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, err.Error())
	}

	session, unknown, err := s.resolveStudents(ctx, session)
	if err != nil {
		return nil, err
	}
	committed, modalities, err := s.loadUnit(ctx, session.Unit)
	if err != nil {
		return nil, err
	}

	expansion := s.builder.Expand(session, committed)
	expansion.Excluded = append(unknown, expansion.Excluded...)
	ledger := NewCapacityLedger(modalities, committed)
	validation := ledger.ValidateBatch(expansion.Pending)

	catalog := make(map[string]models.Modality, len(modalities))
	for _, modality := range modalities {
		catalog[modality.Name] = modality
	}

	// Free seats per modality at commit time, computed from committed rows
	// only. Decremented as pairs land so a shrinking balance stops the batch
	// at the right pair.
	free := make(map[string]int, len(modalities))
	for _, modality := range modalities {
		if modality.Unlimited() {
			continue
		}
		remaining := modality.SeatLimit
		for _, enrollment := range committed {
			if enrollment.Modality == modality.Name {
				remaining--
			}
		}
		if remaining < 0 {
			remaining = 0
		}
		free[modality.Name] = remaining
	}

	result := &models.CommitResult{
		Outcomes:   make([]models.CommitOutcome, 0, len(expansion.Pending)),
		Shortfalls: validation.Shortfalls,
		Excluded:   expansion.Excluded,
		Skipped:    expansion.Skipped,
	}

	stamp := roster.Timestamp(s.now())
	for _, pending := range expansion.Pending {
		modality, known := catalog[pending.Modality]
		outcome := models.CommitOutcome{
			Enrollment: models.Enrollment{
				Timestamp:  stamp,
				Unit:       session.Unit,
				RA:         pending.Student.RA,
				Cohort:     pending.Student.Cohort,
				Student:    pending.Student.Name,
				Modality:   pending.Modality,
				EnrolledBy: session.ActingUser,
			},
		}

		switch {
		case !known:
			outcome.Reason = "modality not found"
		case !modality.HasSeats:
			outcome.Reason = "modality closed"
		case !modality.Unlimited() && free[pending.Modality] <= 0:
			outcome.Reason = fmt.Sprintf("no seats left in %s", pending.Modality)
		default:
			outcome.Enrollment.ModalityGender = modality.Gender
			outcome.Enrollment.ModalityUnit = modality.Unit
			if err := s.enrollments.Append(ctx, outcome.Enrollment); err != nil {
				s.logger.Error("append enrollment failed",
					zap.String("unit", session.Unit),
					zap.String("ra", pending.Student.RA),
					zap.String("modality", pending.Modality),
					zap.Error(err))
				outcome.Reason = "roster store unavailable"
				break
			}
			outcome.Committed = true
			if !modality.Unlimited() {
				free[pending.Modality]--
			}
		}

		if outcome.Committed {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.Summary = fmt.Sprintf("%d succeeded, %d failed", result.Succeeded, result.Failed)

	for _, shortfall := range result.Shortfalls {
		s.logger.Warn("capacity shortfall",
			zap.String("unit", session.Unit),
			zap.String("detail", ShortfallSummary(shortfall)))
	}

	if result.Succeeded > 0 {
		s.invalidateSeats(ctx, session.Unit)
	}

	s.logger.Info("batch committed",
		zap.String("unit", session.Unit),
		zap.String("acting_user", session.ActingUser),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

// ListByUnit returns the committed enrollments of a unit.
func (s *EnrollmentService) ListByUnit(ctx context.Context, unit string) ([]models.Enrollment, error) {
	return s.enrollments.ListByUnit(ctx, unit)
}

// Students returns the registered students an operator may select from.
func (s *EnrollmentService) Students(ctx context.Context, unit string) ([]models.Student, error) {
	return s.students.ListByUnit(ctx, unit)
}

// Delete archives the enrollment at the given sheet position and then
// removes it. The tombstone is written first so the record survives a crash
// between the two writes. A non-empty unitScope restricts deletion to rows
// of that unit.
func (s *EnrollmentService) Delete(ctx context.Context, position int, deletedBy, unitScope string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByPosition(ctx, position)
	if err != nil {
		return nil, err
	}
	if unitScope != "" && enrollment.Unit != unitScope {
		return nil, errors.Clone(errors.ErrForbidden, "enrollment belongs to another unit")
	}

	if err := s.archive.AppendTombstone(ctx, *enrollment, deletedBy, s.now()); err != nil {
		return nil, err
	}
	if err := s.enrollments.Delete(ctx, position); err != nil {
		return nil, err
	}

	s.invalidateSeats(ctx, enrollment.Unit)

	s.logger.Info("enrollment deleted",
		zap.String("unit", enrollment.Unit),
		zap.String("ra", enrollment.RA),
		zap.String("modality", enrollment.Modality),
		zap.String("deleted_by", deletedBy))

	return enrollment, nil
}

// resolveStudents swaps client-supplied student data for the directory record
// of each RA and drops students the unit's directory does not know. Session
// input is untrusted; the directory is the only identity source that reaches
// the roster.
func (s *EnrollmentService) resolveStudents(ctx context.Context, session models.SelectionSession) (models.SelectionSession, []models.ExcludedStudent, error) {
	registered, err := s.students.ListByUnit(ctx, session.Unit)
	if err != nil {
		return session, nil, err
	}
	byRA := make(map[string]models.Student, len(registered))
	for _, student := range registered {
		byRA[student.RA] = student
	}

	resolved := session
	resolved.Students = make([]models.StudentSelection, 0, len(session.Students))
	var unknown []models.ExcludedStudent
	for _, selection := range session.Students {
		student, ok := byRA[selection.Student.RA]
		if !ok {
			unknown = append(unknown, models.ExcludedStudent{
				RA:     selection.Student.RA,
				Name:   selection.Student.Name,
				Reason: ReasonUnknownStudent,
			})
			continue
		}
		selection.Student = student
		resolved.Students = append(resolved.Students, selection)
	}
	return resolved, unknown, nil
}

func (s *EnrollmentService) loadUnit(ctx context.Context, unit string) ([]models.Enrollment, []models.Modality, error) {
	committed, err := s.enrollments.ListByUnit(ctx, unit)
	if err != nil {
		return nil, nil, err
	}
	modalities, err := s.modalities.ListByUnit(ctx, unit)
	if err != nil {
		return nil, nil, err
	}
	return committed, modalities, nil
}

func (s *EnrollmentService) invalidateSeats(ctx context.Context, unit string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, SeatCachePattern(unit)); err != nil {
		s.logger.Warn("seat cache invalidation failed", zap.String("unit", unit), zap.Error(err))
	}
}
