package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
)

type seatCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type studentFinder interface {
	FindByRA(ctx context.Context, unit, ra string) (*models.Student, error)
}

// SeatCacheKey is the cache key for a unit's seat snapshot, per gender tag.
func SeatCacheKey(unit, gender string) string {
	return fmt.Sprintf("seats:%s:%s:views", unit, gender)
}

// SeatCachePattern matches every cached seat entry of a unit.
func SeatCachePattern(unit string) string {
	return fmt.Sprintf("seats:%s:*", unit)
}

// ModalityService serves seat accounting snapshots per unit, cached until
// the next commit or delete invalidates them.
type ModalityService struct {
	modalities  modalityCatalog
	enrollments enrollmentStore
	students    studentFinder
	cache       seatCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewModalityService wires the service.
func NewModalityService(
	modalities modalityCatalog,
	enrollments enrollmentStore,
	students studentFinder,
	cache seatCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ModalityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModalityService{
		modalities:  modalities,
		enrollments: enrollments,
		students:    students,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// SeatViews returns the per-modality seat snapshot for a unit, optionally
// narrowed by gender tag. Cache errors degrade to a fresh read.
func (s *ModalityService) SeatViews(ctx context.Context, unit, gender string) ([]models.SeatView, error) {
	key := SeatCacheKey(unit, gender)

	if s.cache != nil {
		var cached []models.SeatView
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	modalities, err := s.modalities.ListByUnit(ctx, unit)
	if err != nil {
		return nil, err
	}
	modalities = filterByGender(modalities, gender)
	committed, err := s.enrollments.ListByUnit(ctx, unit)
	if err != nil {
		return nil, err
	}

	views := NewCapacityLedger(modalities, committed).SeatViews()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, views, s.cacheTTL); err != nil {
			s.logger.Warn("seat cache write failed", zap.String("unit", unit), zap.Error(err))
		}
	}
	return views, nil
}

// OfferableFor filters the unit's seat snapshot down to what one student may
// still pick, honouring holds the student already has. The RA must exist in
// the unit's student directory.
func (s *ModalityService) OfferableFor(ctx context.Context, unit, gender, ra string) ([]models.SeatView, error) {
	if _, err := s.students.FindByRA(ctx, unit, ra); err != nil {
		return nil, err
	}
	modalities, err := s.modalities.ListByUnit(ctx, unit)
	if err != nil {
		return nil, err
	}
	modalities = filterByGender(modalities, gender)
	committed, err := s.enrollments.ListByUnit(ctx, unit)
	if err != nil {
		return nil, err
	}

	ledger := NewCapacityLedger(modalities, committed)
	views := ledger.SeatViews()

	offerable := make([]models.SeatView, 0, len(views))
	for _, view := range views {
		if ledger.Offerable(view.Modality.Name, ra) {
			view.Offerable = true
			offerable = append(offerable, view)
		}
	}
	return offerable, nil
}

// filterByGender keeps modalities whose tag admits the given gender. Mixed
// modalities ("M/F") match every gender; an empty filter matches everything.
func filterByGender(modalities []models.Modality, gender string) []models.Modality {
	if gender == "" {
		return modalities
	}
	kept := make([]models.Modality, 0, len(modalities))
	for _, m := range modalities {
		tag := strings.ToUpper(strings.TrimSpace(m.Gender))
		if tag == "" || strings.Contains(tag, strings.ToUpper(gender)) {
			kept = append(kept, m)
		}
	}
	return kept
}
