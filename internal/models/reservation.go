package models

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusActive   ReservationStatus = "active"
	ReservationStatusCanceled ReservationStatus = "canceled"
)

type Reservation struct {
	ID       uuid.UUID         `json:"id"`
	UserID   uuid.UUID         `json:"user_id"`
	OfficeID uuid.UUID         `json:"office_id"`
	Status   ReservationStatus `json:"status"`

	// Calendar dates, inclusive on both ends. Stored as DATE; always
	// midnight UTC in memory.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Smallest currency unit.
	Price int `json:"price"`

	// Opaque per-reservation secret, generated once at creation and
	// encrypted at rest.
	AccessToken string `json:"access_token,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Date truncates t to a calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OverlapsRange reports whether the reservation's inclusive [start, end]
// range collides with [from, to]. The boundary branches are inclusive
// (ranges sharing only an edge date count as overlapping) while the
// containment branch requires strictly exceeding both bounds. This mirrors
// the SQL predicate the reservation store runs and must not be "simplified".
func (r *Reservation) OverlapsRange(from, to time.Time) bool {
	between := func(d, lo, hi time.Time) bool {
		return !d.Before(lo) && !d.After(hi)
	}
	return between(r.StartDate, from, to) ||
		between(r.EndDate, from, to) ||
		(r.StartDate.Before(from) && r.EndDate.After(to))
}
