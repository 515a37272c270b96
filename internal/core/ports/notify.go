package ports

import "github.com/seatsync/ticketd/internal/core/domain"

// Renderer produces the booking-confirmation artifact for a job and
// returns its filesystem location.
type Renderer interface {
	Render(job domain.NotificationJob) (string, error)
}

// Sender dispatches a single message. attachmentPath may be empty.
// Implementations are fire-and-forget from the core's perspective; the
// worker logs failures instead of propagating them to the booking path.
type Sender interface {
	Send(to, subject, body, attachmentPath string) error
}
