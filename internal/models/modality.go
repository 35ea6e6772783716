package models

// UnlimitedSeats marks a modality that never runs out of capacity.
const UnlimitedSeats = -1

// PickNone is the sentinel option shown when a student skips a pick slot.
const PickNone = "Nenhuma"

// Modality is one activity a unit offers, keyed by unit plus name. Gender is
// the eligibility tag carried into enrollment rows ("M", "F" or "M/F").
type Modality struct {
	Gender    string `json:"gender"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	SeatLimit int    `json:"seat_limit"`
	// HasSeats mirrors the workbook flag column. When false the modality is
	// hard-closed regardless of the computed remaining count.
	HasSeats bool `json:"has_seats"`
}

// Unlimited reports whether the modality has no seat limit.
func (m Modality) Unlimited() bool {
	return m.SeatLimit == UnlimitedSeats
}

// SeatView is the seat accounting snapshot served to clients for one modality.
type SeatView struct {
	Modality  Modality `json:"modality"`
	Committed int      `json:"committed"`
	Tentative int      `json:"tentative"`
	// Remaining is the raw balance and may be negative when manual edits or
	// concurrent sessions overbooked the modality.
	Remaining int `json:"remaining"`
	// DisplayRemaining clamps the raw balance at zero for presentation.
	DisplayRemaining int  `json:"display_remaining"`
	Offerable        bool `json:"offerable"`
}
