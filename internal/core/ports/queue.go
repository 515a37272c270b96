package ports

import (
	"context"

	"github.com/seatsync/ticketd/internal/core/domain"
)

// JobQueue hands notification work to an asynchronous consumer. Enqueue
// must not block on downstream processing; delivery is at least once.
type JobQueue interface {
	Enqueue(ctx context.Context, job domain.NotificationJob) error
}
