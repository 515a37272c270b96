package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/seatsync/ticketd/internal/core/domain"
	"github.com/seatsync/ticketd/internal/core/ports"
)

const (
	// DefaultLockTTL bounds how long a crashed booking attempt can block
	// other bookers for the same event.
	DefaultLockTTL = 10 * time.Second

	// maxReferenceAttempts bounds regeneration on reference collisions.
	maxReferenceAttempts = 5
)

// BookingConfirmation is the outcome of a successful booking, returned to
// the caller once the ticket is durable.
type BookingConfirmation struct {
	TicketID  uuid.UUID `json:"ticket_id"`
	EventName string    `json:"event_name"`
	Reference string    `json:"reference"`
}

// BookingService coordinates seat allocation: it serializes concurrent
// bookings per event through an advisory lock, commits the seat decrement
// and ticket insert as one transaction, and hands confirmation work to the
// notification queue.
type BookingService struct {
	events  ports.EventRepository
	tickets ports.TicketRepository
	lock    ports.Locker
	queue   ports.JobQueue
	logger  *slog.Logger
	lockTTL time.Duration
}

func NewBookingService(
	events ports.EventRepository,
	tickets ports.TicketRepository,
	lock ports.Locker,
	queue ports.JobQueue,
	logger *slog.Logger,
	lockTTL time.Duration,
) *BookingService {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &BookingService{
		events:  events,
		tickets: tickets,
		lock:    lock,
		queue:   queue,
		logger:  logger,
		lockTTL: lockTTL,
	}
}

// lockKey matches one advisory lock to one event's seat ledger.
func lockKey(eventID uuid.UUID) string {
	return "event_lock_" + eventID.String()
}

// BookSeat books one seat on the event for the requester.
//
// The per-event lock wraps only the read-check-decrement critical section;
// notification enqueueing runs after the lock is released so email/PDF
// latency never extends the hold time. Enqueue failure is logged, not
// surfaced: the booking is authoritative once the transaction commits.
func (s *BookingService) BookSeat(ctx context.Context, eventID uuid.UUID, requester domain.Requester) (*BookingConfirmation, error) {
	confirmation, err := s.reserveSeat(ctx, eventID, requester)
	if err != nil {
		return nil, err
	}

	job := domain.NotificationJob{
		RecipientEmail: requester.Email,
		EventName:      confirmation.EventName,
		Reference:      confirmation.Reference,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("enqueue booking notification",
			"reference", confirmation.Reference,
			"recipient", requester.Email,
			"error", err)
	}

	return confirmation, nil
}

// reserveSeat is the lock-guarded critical section. The lock is released
// on every exit path; if this process dies mid-flight the TTL reclaims it.
func (s *BookingService) reserveSeat(ctx context.Context, eventID uuid.UUID, requester domain.Requester) (*BookingConfirmation, error) {
	key := lockKey(eventID)

	granted, err := s.lock.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire event lock: %w", err)
	}
	if !granted {
		return nil, domain.ErrSeatLocked
	}
	defer func() {
		// Release even when the request context is already cancelled.
		if err := s.lock.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("release event lock", "key", key, "error", err)
		}
	}()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event.SoldOut() {
		return nil, domain.ErrSoldOut
	}

	ticket := &domain.Ticket{
		ID:        uuid.New(),
		EventID:   event.ID,
		UserID:    requester.ID,
		UserEmail: requester.Email,
		CreatedAt: time.Now().UTC(),
	}

	for attempt := 1; ; attempt++ {
		reference, err := NewReference()
		if err != nil {
			return nil, fmt.Errorf("generate reference: %w", err)
		}
		ticket.Reference = reference

		err = s.tickets.CreateWithSeatDecrement(ctx, ticket)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateReference) && attempt < maxReferenceAttempts {
			s.logger.Warn("reference collision, regenerating", "reference", reference)
			continue
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return &BookingConfirmation{
		TicketID:  ticket.ID,
		EventName: event.Name,
		Reference: ticket.Reference,
	}, nil
}

// CancelTicket soft-deletes a ticket and restores one seat to its event.
//
// No distributed lock: the increment is commutative and cannot exceed
// total_seats as long as each increment pairs with one prior decrement,
// which the cancelled-flag guard inside the transaction enforces.
func (s *BookingService) CancelTicket(ctx context.Context, ticketID uuid.UUID, requester domain.Requester) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load ticket: %w", err)
	}

	if ticket.UserID != requester.ID && !requester.IsAdmin {
		return domain.ErrForbidden
	}
	if ticket.IsCancelled {
		return domain.ErrAlreadyCancelled
	}

	// The repository re-checks the flag inside the transaction, so two
	// racing cancellations still restore exactly one seat.
	if err := s.tickets.CancelWithSeatRestore(ctx, ticketID); err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) {
			return domain.ErrAlreadyCancelled
		}
		return fmt.Errorf("cancel ticket: %w", err)
	}
	return nil
}

// ListUserTickets returns the requester's active tickets.
func (s *BookingService) ListUserTickets(ctx context.Context, userID uuid.UUID) ([]domain.TicketSummary, error) {
	return s.tickets.ListByUser(ctx, userID)
}
