// Package worker processes notification jobs produced by successful
// bookings: one PDF artifact, one mail to the ticket holder, and an
// optional summary mail to the admin address.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/seatsync/ticketd/internal/core/domain"
	"github.com/seatsync/ticketd/internal/core/ports"
)

const (
	userSubject  = "Ticket Booking Confirmation"
	adminSubject = "New Ticket Booking"
)

type Notifier struct {
	renderer   ports.Renderer
	sender     ports.Sender
	adminEmail string
	logger     *slog.Logger
}

// NewNotifier builds a job processor. adminEmail may be empty, in which
// case only the ticket holder is notified.
func NewNotifier(renderer ports.Renderer, sender ports.Sender, adminEmail string, logger *slog.Logger) *Notifier {
	return &Notifier{
		renderer:   renderer,
		sender:     sender,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Process handles one job. The artifact is rendered once and shared by
// both messages. The two sends are independent: either may fail without
// affecting the other, and neither failure escapes this worker — the
// booking that produced the job has long since returned.
//
// Only a render failure is returned, as the one condition worth a
// redelivery attempt.
func (n *Notifier) Process(job domain.NotificationJob) error {
	artifactPath, err := n.renderer.Render(job)
	if err != nil {
		return fmt.Errorf("render artifact for %s: %w", job.Reference, err)
	}

	userBody := fmt.Sprintf(`Hello,

Your ticket has been successfully booked!

Event Name: %s
Ticket Reference: %s

Please keep this reference number for future communication.

Regards,
Ticket Booking App
`, job.EventName, job.Reference)

	if err := n.sender.Send(job.RecipientEmail, userSubject, userBody, artifactPath); err != nil {
		n.logger.Error("send confirmation mail",
			"reference", job.Reference, "recipient", job.RecipientEmail, "error", err)
	}

	if n.adminEmail == "" {
		return nil
	}

	adminBody := fmt.Sprintf(`New booking received!

Booked User: %s
Event: %s
Reference: %s
`, job.RecipientEmail, job.EventName, job.Reference)

	if err := n.sender.Send(n.adminEmail, adminSubject, adminBody, artifactPath); err != nil {
		n.logger.Error("send admin summary mail",
			"reference", job.Reference, "recipient", n.adminEmail, "error", err)
	}
	return nil
}

// Run consumes AMQP deliveries until the context is done or the channel
// closes.
func (n *Notifier) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			n.handle(d)
		}
	}
}

// handle acks, nacks, or drops one delivery. A job is redelivered at most
// once: first failure requeues, a redelivered failure is logged and acked
// so a broken job cannot wedge the queue.
func (n *Notifier) handle(d amqp.Delivery) {
	var job domain.NotificationJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		n.logger.Error("drop undecodable job", "error", err)
		_ = d.Ack(false)
		return
	}

	if err := n.Process(job); err != nil {
		if !d.Redelivered {
			n.logger.Warn("job failed, requeueing once", "reference", job.Reference, "error", err)
			_ = d.Nack(false, true)
			return
		}
		n.logger.Error("job failed after redelivery, dropping", "reference", job.Reference, "error", err)
	}
	_ = d.Ack(false)
}

// RunJobs consumes a plain job channel, for single-process deployments
// backed by the in-memory queue.
func (n *Notifier) RunJobs(ctx context.Context, jobs <-chan domain.NotificationJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := n.Process(job); err != nil {
				n.logger.Error("process notification job", "reference", job.Reference, "error", err)
			}
		}
	}
}
