package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/seatsync/ticketd/internal/core/domain"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
	INSERT INTO events (id, name, total_seats, available_seats, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Name, event.TotalSeats, event.AvailableSeats, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `
	SELECT id, name, total_seats, available_seats, created_at
	FROM events
	WHERE id = $1
	`

	var event domain.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	query := `
	SELECT id, name, total_seats, available_seats, created_at
	FROM events
	ORDER BY created_at DESC
	`

	var events []domain.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Delete removes an event only when no ticket references it anymore. The
// guard includes cancelled tickets: a dangling ticket row must never point
// at a missing ledger.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ticketCount int
	err = tx.GetContext(ctx, &ticketCount,
		`SELECT COUNT(*) FROM tickets WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("count event tickets: %w", err)
	}
	if ticketCount > 0 {
		return domain.ErrEventHasTickets
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}
