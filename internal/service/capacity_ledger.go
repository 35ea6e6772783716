package service

import (
	"fmt"
	"sort"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
)

// CapacityLedger is a per-unit snapshot of seat accounting. Committed counts
// are recomputed from the enrollment rows themselves so manual workbook edits
// never desynchronise the balance. Tentative reservations come from the
// in-flight selection session and are advisory only.
type CapacityLedger struct {
	modalities map[string]models.Modality
	committed  map[string]int
	tentative  map[string]int

	// held tracks which students already hold a modality, committed or
	// tentatively, keyed by modality then RA.
	held map[string]map[string]bool
}

// NewCapacityLedger builds a ledger from the unit's catalogue and its
// committed enrollments.
func NewCapacityLedger(modalities []models.Modality, committed []models.Enrollment) *CapacityLedger {
	ledger := &CapacityLedger{
		modalities: make(map[string]models.Modality, len(modalities)),
		committed:  make(map[string]int),
		tentative:  make(map[string]int),
		held:       make(map[string]map[string]bool),
	}
	for _, modality := range modalities {
		ledger.modalities[modality.Name] = modality
	}
	for _, enrollment := range committed {
		ledger.committed[enrollment.Modality]++
		ledger.hold(enrollment.Modality, enrollment.RA)
	}
	return ledger
}

// AddTentative records an advisory reservation from the current session.
func (l *CapacityLedger) AddTentative(modality, ra string) {
	l.tentative[modality]++
	l.hold(modality, ra)
}

// ReleaseTentative drops one advisory reservation.
func (l *CapacityLedger) ReleaseTentative(modality, ra string) {
	if l.tentative[modality] > 0 {
		l.tentative[modality]--
	}
	if holders := l.held[modality]; holders != nil {
		delete(holders, ra)
	}
}

// Remaining returns the raw seat balance. It may be negative when the sheet
// was overbooked by manual edits or concurrent sessions. Unlimited modalities
// always report a positive balance.
func (l *CapacityLedger) Remaining(modality string) int {
	m, ok := l.modalities[modality]
	if !ok || m.Unlimited() {
		return 1
	}
	return m.SeatLimit - l.committed[modality] - l.tentative[modality]
}

// DisplayRemaining clamps the raw balance at zero for presentation.
func (l *CapacityLedger) DisplayRemaining(modality string) int {
	remaining := l.Remaining(modality)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Offerable reports whether the modality may be shown to the student as a
// pick. A modality with no free seats is still offerable to a student who
// already holds it, so re-rendering a session never invalidates prior picks.
func (l *CapacityLedger) Offerable(modality, ra string) bool {
	m, ok := l.modalities[modality]
	if !ok {
		return false
	}
	if !m.HasSeats {
		return false
	}
	if l.Remaining(modality) > 0 {
		return true
	}
	return l.held[modality][ra]
}

// HeldBy reports whether the student already holds the modality.
func (l *CapacityLedger) HeldBy(modality, ra string) bool {
	return l.held[modality][ra]
}

// ValidateBatch is the authoritative pre-commit gate. It checks the pending
// pairs against committed seats only, since the batch itself is the tentative
// demand, and reports a per-modality shortfall for every modality that cannot
// absorb its requests. Hard-closed modalities are reported separately so the
// preview verdict matches what a commit would do with them.
func (l *CapacityLedger) ValidateBatch(pending []models.PendingEnrollment) models.BatchValidation {
	requested := make(map[string]int)
	for _, p := range pending {
		requested[p.Modality]++
	}

	names := make([]string, 0, len(requested))
	for name := range requested {
		names = append(names, name)
	}
	sort.Strings(names)

	var shortfalls []models.Shortfall
	var closed []string
	for _, name := range names {
		m, ok := l.modalities[name]
		if !ok {
			continue
		}
		if !m.HasSeats {
			closed = append(closed, name)
			continue
		}
		if m.Unlimited() {
			continue
		}
		remaining := m.SeatLimit - l.committed[name]
		if remaining < 0 {
			remaining = 0
		}
		if requested[name] > remaining {
			shortfalls = append(shortfalls, models.Shortfall{
				Modality:  name,
				Requested: requested[name],
				Remaining: remaining,
				Shortfall: requested[name] - remaining,
			})
		}
	}

	return models.BatchValidation{
		OK:         len(shortfalls) == 0 && len(closed) == 0,
		Shortfalls: shortfalls,
		Closed:     closed,
	}
}

// SeatViews builds the presentation snapshot for every modality, ordered by
// name.
func (l *CapacityLedger) SeatViews() []models.SeatView {
	names := make([]string, 0, len(l.modalities))
	for name := range l.modalities {
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]models.SeatView, 0, len(names))
	for _, name := range names {
		m := l.modalities[name]
		view := models.SeatView{
			Modality:  m,
			Committed: l.committed[name],
			Tentative: l.tentative[name],
		}
		if m.Unlimited() {
			view.Remaining = models.UnlimitedSeats
			view.DisplayRemaining = models.UnlimitedSeats
			view.Offerable = m.HasSeats
		} else {
			view.Remaining = l.Remaining(name)
			view.DisplayRemaining = l.DisplayRemaining(name)
			view.Offerable = m.HasSeats && view.Remaining > 0
		}
		views = append(views, view)
	}
	return views
}

func (l *CapacityLedger) hold(modality, ra string) {
	holders, ok := l.held[modality]
	if !ok {
		holders = make(map[string]bool)
		l.held[modality] = holders
	}
	holders[ra] = true
}

// ShortfallSummary renders the operator-facing message for a failed gate.
func ShortfallSummary(s models.Shortfall) string {
	return fmt.Sprintf("%s: %d requested, %d remaining, short %d", s.Modality, s.Requested, s.Remaining, s.Shortfall)
}
