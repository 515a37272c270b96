package domain

import "errors"

var (
	// ErrNotFound is returned when the requested event or ticket does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid marks requests rejected by input validation.
	ErrInvalid = errors.New("invalid request")

	// ErrSeatLocked means another booking for the same event currently holds
	// the per-event lock. Transient: the caller may retry later.
	ErrSeatLocked = errors.New("seat temporarily locked")

	// ErrSoldOut means the event has no seats left at this instant.
	ErrSoldOut = errors.New("no seats available")

	// ErrForbidden is returned when the requester is neither the ticket owner
	// nor an admin.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyCancelled guards double cancellation; the second call must
	// not restore a second seat.
	ErrAlreadyCancelled = errors.New("ticket already cancelled")

	// ErrEventHasTickets blocks deletion of an event that any ticket,
	// cancelled or not, still references.
	ErrEventHasTickets = errors.New("event still has tickets")

	// ErrDuplicateReference signals a reference-code collision at insert
	// time. Never surfaced to callers: the booking coordinator regenerates
	// the code and retries.
	ErrDuplicateReference = errors.New("duplicate ticket reference")
)
