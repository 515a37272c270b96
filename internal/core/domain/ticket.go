package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is a booked seat. Reference is the globally unique human-readable
// code handed to the holder (TKT-XXXXXXXX). IsCancelled only ever moves
// from false to true.
type Ticket struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Reference   string    `db:"reference" json:"reference"`
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	UserEmail   string    `db:"user_email" json:"user_email"`
	IsCancelled bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TicketSummary is a ticket joined with its event name, as listed back to
// the ticket holder.
type TicketSummary struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventName string    `db:"event_name" json:"event_name"`
	Reference string    `db:"reference" json:"reference"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
