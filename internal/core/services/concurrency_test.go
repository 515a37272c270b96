package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seatsync/ticketd/internal/adapter/lock/locallock"
	"github.com/seatsync/ticketd/internal/adapter/queue/memqueue"
	"github.com/seatsync/ticketd/internal/core/domain"
	"github.com/seatsync/ticketd/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory implementation of both repositories with the
// same atomicity guarantees the Postgres adapter gets from transactions:
// every read-modify-write happens under one mutex.
type memStore struct {
	mu      sync.Mutex
	events  map[uuid.UUID]*domain.Event
	tickets map[uuid.UUID]*domain.Ticket
	refs    map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		events:  make(map[uuid.UUID]*domain.Event),
		tickets: make(map[uuid.UUID]*domain.Ticket),
		refs:    make(map[string]bool),
	}
}

func (s *memStore) Create(_ context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *memStore) List(_ context.Context) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.EventID == id {
			return domain.ErrEventHasTickets
		}
	}
	if _, ok := s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *memStore) CreateWithSeatDecrement(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[ticket.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	if event.AvailableSeats <= 0 {
		return domain.ErrSoldOut
	}
	if s.refs[ticket.Reference] {
		return domain.ErrDuplicateReference
	}
	event.AvailableSeats--
	copied := *ticket
	s.tickets[ticket.ID] = &copied
	s.refs[ticket.Reference] = true
	return nil
}

func (s *memStore) GetTicketByID(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *memStore) CancelWithSeatRestore(_ context.Context, ticketID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[ticketID]
	if !ok {
		return domain.ErrNotFound
	}
	if ticket.IsCancelled {
		return domain.ErrAlreadyCancelled
	}
	event, ok := s.events[ticket.EventID]
	if !ok {
		return errors.New("event missing for ticket")
	}
	ticket.IsCancelled = true
	event.AvailableSeats++
	return nil
}

func (s *memStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.TicketSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TicketSummary
	for _, t := range s.tickets {
		if t.UserID == userID && !t.IsCancelled {
			out = append(out, domain.TicketSummary{
				ID:        t.ID,
				Reference: t.Reference,
				CreatedAt: t.CreatedAt,
			})
		}
	}
	return out, nil
}

// ticketRepo adapts memStore to ports.TicketRepository without colliding
// with the event GetByID method name.
type ticketRepo struct{ *memStore }

func (r ticketRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	return r.GetTicketByID(ctx, id)
}

func (s *memStore) availableSeats(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id].AvailableSeats
}

func newMemService(t *testing.T, store *memStore, queue *memqueue.Queue) *services.BookingService {
	t.Helper()
	return services.NewBookingService(store, ticketRepo{store}, locallock.New(), queue, testLogger(), 2*time.Second)
}

// bookUntilSettled retries only the transient lock-denied outcome, the way
// a real caller would, until the attempt lands on a terminal result.
func bookUntilSettled(ctx context.Context, svc *services.BookingService, eventID uuid.UUID, requester domain.Requester) (*services.BookingConfirmation, error) {
	for {
		confirmation, err := svc.BookSeat(ctx, eventID, requester)
		if errors.Is(err, domain.ErrSeatLocked) {
			time.Sleep(time.Millisecond)
			continue
		}
		return confirmation, err
	}
}

func TestConcurrentBooking_NeverOversells(t *testing.T) {
	const seats = 3
	const attempts = 10

	store := newMemStore()
	queue := memqueue.New(attempts)
	svc := newMemService(t, store, queue)

	ctx := context.Background()
	eventID := uuid.New()
	require.NoError(t, store.Create(ctx, &domain.Event{
		ID:             eventID,
		Name:           "Tiny Venue",
		TotalSeats:     seats,
		AvailableSeats: seats,
	}))

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookUntilSettled(ctx, svc, eventID, domain.Requester{ID: uuid.New(), Email: "user@example.com"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, soldOut int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrSoldOut):
			soldOut++
		default:
			t.Fatalf("unexpected outcome: %v", err)
		}
	}

	assert.Equal(t, seats, succeeded)
	assert.Equal(t, attempts-seats, soldOut)
	assert.Equal(t, 0, store.availableSeats(eventID))
	// One notification job per committed booking, none for failures.
	assert.Len(t, queue.Jobs(), seats)
}

func TestSingleSeat_TwoSimultaneousBookers(t *testing.T) {
	store := newMemStore()
	queue := memqueue.New(4)
	svc := newMemService(t, store, queue)

	ctx := context.Background()
	eventID := uuid.New()
	require.NoError(t, store.Create(ctx, &domain.Event{
		ID:             eventID,
		Name:           "Last Seat",
		TotalSeats:     1,
		AvailableSeats: 1,
	}))

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := bookUntilSettled(ctx, svc, eventID, domain.Requester{ID: uuid.New()})
			errs <- err
		}()
	}

	first, second := <-errs, <-errs
	winners := 0
	for _, err := range []error{first, second} {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrSoldOut)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 0, store.availableSeats(eventID))
}

func TestBookCancelRebook_RestoresLedger(t *testing.T) {
	const seats = 5

	store := newMemStore()
	queue := memqueue.New(8)
	svc := newMemService(t, store, queue)

	ctx := context.Background()
	eventID := uuid.New()
	require.NoError(t, store.Create(ctx, &domain.Event{
		ID:             eventID,
		Name:           "Recurring Show",
		TotalSeats:     seats,
		AvailableSeats: seats,
	}))

	requester := domain.Requester{ID: uuid.New(), Email: "erin@example.com"}

	confirmation, err := svc.BookSeat(ctx, eventID, requester)
	require.NoError(t, err)
	assert.Equal(t, seats-1, store.availableSeats(eventID))

	require.NoError(t, svc.CancelTicket(ctx, confirmation.TicketID, requester))
	assert.Equal(t, seats, store.availableSeats(eventID))

	// Double cancel: rejected, and the seat count does not move again.
	err = svc.CancelTicket(ctx, confirmation.TicketID, requester)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, seats, store.availableSeats(eventID))

	_, err = svc.BookSeat(ctx, eventID, requester)
	require.NoError(t, err)
	assert.Equal(t, seats-1, store.availableSeats(eventID))
}
