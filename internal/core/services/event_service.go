package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seatsync/ticketd/internal/core/domain"
	"github.com/seatsync/ticketd/internal/core/ports"
)

// EventService covers administrative event operations. Seat counts are
// only ever mutated through the booking and cancellation paths; here the
// ledger is created, listed, and deleted.
type EventService struct {
	events ports.EventRepository
}

func NewEventService(events ports.EventRepository) *EventService {
	return &EventService{events: events}
}

// CreateEvent creates an event with all seats available. Admin only.
func (s *EventService) CreateEvent(ctx context.Context, requester domain.Requester, name string, totalSeats int) (*domain.Event, error) {
	if !requester.IsAdmin {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalid)
	}
	if totalSeats <= 0 {
		return nil, fmt.Errorf("%w: total_seats must be positive", domain.ErrInvalid)
	}

	event := &domain.Event{
		ID:             uuid.New(),
		Name:           name,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// ListEvents returns every event with its current seat counts.
func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// DeleteEvent removes an event. Admin only, and refused while any ticket
// still references the event so a later cancellation can never observe a
// missing ledger.
func (s *EventService) DeleteEvent(ctx context.Context, requester domain.Requester, eventID uuid.UUID) error {
	if !requester.IsAdmin {
		return domain.ErrForbidden
	}
	return s.events.Delete(ctx, eventID)
}
