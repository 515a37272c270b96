package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is the seat ledger for a single bookable event. AvailableSeats is
// the contended counter; it must stay within [0, TotalSeats].
type Event struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	TotalSeats     int       `db:"total_seats" json:"total_seats"`
	AvailableSeats int       `db:"available_seats" json:"available_seats"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (e *Event) SoldOut() bool {
	return e.AvailableSeats <= 0
}
