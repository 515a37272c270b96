package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/seatsync/ticketd/internal/core/domain"
)

const uniqueViolation = "23505"

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreateWithSeatDecrement commits the seat decrement and the ticket insert
// together: a phantom decrement with no ticket, or a ticket with no
// decrement, is impossible.
//
// Callers hold the per-event advisory lock while calling this, so the
// available_seats > 0 predicate is a last-resort guard, not the primary
// concurrency control.
func (r *TicketRepository) CreateWithSeatDecrement(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
	UPDATE events
	SET available_seats = available_seats - 1
	WHERE id = $1 AND available_seats > 0
	`, ticket.EventID)
	if err != nil {
		return fmt.Errorf("decrement seats: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrSoldOut
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO tickets (id, reference, event_id, user_id, user_email, is_cancelled, created_at)
	VALUES ($1, $2, $3, $4, $5, FALSE, $6)
	`, ticket.ID, ticket.Reference, ticket.EventID, ticket.UserID, ticket.UserEmail, ticket.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("insert ticket: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking transaction: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `
	SELECT id, reference, event_id, user_id, user_email, is_cancelled, created_at
	FROM tickets
	WHERE id = $1
	`

	var ticket domain.Ticket
	if err := r.db.GetContext(ctx, &ticket, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &ticket, nil
}

// CancelWithSeatRestore flips is_cancelled and gives the seat back in one
// transaction. The is_cancelled = FALSE predicate makes the flip the
// idempotency gate: a second cancellation matches zero rows and no second
// seat is ever restored.
func (r *TicketRepository) CancelWithSeatRestore(ctx context.Context, ticketID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var eventID uuid.UUID
	err = tx.QueryRowContext(ctx, `
	UPDATE tickets
	SET is_cancelled = TRUE
	WHERE id = $1 AND is_cancelled = FALSE
	RETURNING event_id
	`, ticketID).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.cancelMissReason(ctx, tx, ticketID)
		}
		return fmt.Errorf("mark ticket cancelled: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
	UPDATE events
	SET available_seats = available_seats + 1
	WHERE id = $1
	`, eventID)
	if err != nil {
		return fmt.Errorf("restore seat: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Event deletion is blocked while tickets exist, so this means the
		// store is inconsistent. Roll the flip back rather than losing the
		// seat restoration.
		return fmt.Errorf("restore seat: event %s not found for ticket %s", eventID, ticketID)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit cancellation transaction: %w", err)
	}
	return nil
}

// cancelMissReason distinguishes a missing ticket from an already
// cancelled one after the guarded UPDATE matched nothing.
func (r *TicketRepository) cancelMissReason(ctx context.Context, tx *sqlx.Tx, ticketID uuid.UUID) error {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, ticketID)
	if err != nil {
		return fmt.Errorf("check ticket existence: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyCancelled
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketSummary, error) {
	query := `
	SELECT t.id, e.name AS event_name, t.reference, t.created_at
	FROM tickets t
	JOIN events e ON e.id = t.event_id
	WHERE t.user_id = $1 AND t.is_cancelled = FALSE
	ORDER BY t.created_at DESC
	`

	var tickets []domain.TicketSummary
	if err := r.db.SelectContext(ctx, &tickets, query, userID); err != nil {
		return nil, fmt.Errorf("list user tickets: %w", err)
	}
	return tickets, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
