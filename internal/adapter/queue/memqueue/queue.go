// Package memqueue is a channel-backed job queue for single-process
// deployments and tests. Not durable: jobs in flight die with the process.
package memqueue

import (
	"context"
	"errors"

	"github.com/seatsync/ticketd/internal/core/domain"
)

// ErrQueueFull is returned instead of blocking the booking response when
// the consumer cannot keep up.
var ErrQueueFull = errors.New("notification queue full")

type Queue struct {
	jobs chan domain.NotificationJob
}

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{jobs: make(chan domain.NotificationJob, capacity)}
}

func (q *Queue) Enqueue(_ context.Context, job domain.NotificationJob) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Jobs is the consumer side. Range over it until Close.
func (q *Queue) Jobs() <-chan domain.NotificationJob {
	return q.jobs
}

func (q *Queue) Close() {
	close(q.jobs)
}
