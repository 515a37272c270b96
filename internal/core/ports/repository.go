package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/seatsync/ticketd/internal/core/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	// Delete removes an event. It fails with domain.ErrEventHasTickets while
	// any ticket, cancelled or not, still references the event, and with
	// domain.ErrNotFound if the event does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type TicketRepository interface {
	// CreateWithSeatDecrement inserts the ticket and decrements its event's
	// available_seats in a single transaction: both writes commit together
	// or neither does. A reference collision is reported as
	// domain.ErrDuplicateReference so the caller can regenerate the code.
	CreateWithSeatDecrement(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	// CancelWithSeatRestore flips is_cancelled and restores one seat to the
	// owning event in a single transaction. Returns
	// domain.ErrAlreadyCancelled when the flag was already set; the seat
	// counter is then left untouched.
	CancelWithSeatRestore(ctx context.Context, ticketID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketSummary, error)
}
