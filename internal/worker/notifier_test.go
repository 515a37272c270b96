package worker_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/seatsync/ticketd/internal/core/domain"
	"github.com/seatsync/ticketd/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	path  string
	err   error
	calls int
}

func (r *stubRenderer) Render(domain.NotificationJob) (string, error) {
	r.calls++
	return r.path, r.err
}

type sentMail struct {
	to         string
	subject    string
	attachment string
}

type stubSender struct {
	sent   []sentMail
	failTo string
}

func (s *stubSender) Send(to, subject, _, attachmentPath string) error {
	s.sent = append(s.sent, sentMail{to: to, subject: subject, attachment: attachmentPath})
	if s.failTo != "" && to == s.failTo {
		return errors.New("smtp timeout")
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var job = domain.NotificationJob{
	RecipientEmail: "grace@example.com",
	EventName:      "Opera Night",
	Reference:      "TKT-XY12AB34",
}

func TestProcess_SendsUserAndAdminMail(t *testing.T) {
	renderer := &stubRenderer{path: "tickets/TKT-XY12AB34.pdf"}
	sender := &stubSender{}
	n := worker.NewNotifier(renderer, sender, "admin@example.com", testLogger())

	require.NoError(t, n.Process(job))

	// One artifact shared by both messages.
	assert.Equal(t, 1, renderer.calls)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "grace@example.com", sender.sent[0].to)
	assert.Equal(t, "tickets/TKT-XY12AB34.pdf", sender.sent[0].attachment)
	assert.Equal(t, "admin@example.com", sender.sent[1].to)
	assert.Equal(t, "tickets/TKT-XY12AB34.pdf", sender.sent[1].attachment)
	assert.NotEqual(t, sender.sent[0].subject, sender.sent[1].subject)
}

func TestProcess_NoAdminConfigured(t *testing.T) {
	renderer := &stubRenderer{path: "tickets/TKT-XY12AB34.pdf"}
	sender := &stubSender{}
	n := worker.NewNotifier(renderer, sender, "", testLogger())

	require.NoError(t, n.Process(job))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "grace@example.com", sender.sent[0].to)
}

func TestProcess_UserSendFailureStillNotifiesAdmin(t *testing.T) {
	renderer := &stubRenderer{path: "tickets/TKT-XY12AB34.pdf"}
	sender := &stubSender{failTo: "grace@example.com"}
	n := worker.NewNotifier(renderer, sender, "admin@example.com", testLogger())

	// Send failures are logged, never escalated.
	require.NoError(t, n.Process(job))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "admin@example.com", sender.sent[1].to)
}

func TestProcess_RenderFailureIsRetryable(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("disk full")}
	sender := &stubSender{}
	n := worker.NewNotifier(renderer, sender, "admin@example.com", testLogger())

	err := n.Process(job)

	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestProcess_DuplicateDeliveryIsHarmless(t *testing.T) {
	renderer := &stubRenderer{path: "tickets/TKT-XY12AB34.pdf"}
	sender := &stubSender{}
	n := worker.NewNotifier(renderer, sender, "", testLogger())

	require.NoError(t, n.Process(job))
	require.NoError(t, n.Process(job))

	// Re-sending the same confirmation is acceptable under at-least-once
	// delivery; nothing else changes.
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, sender.sent[0], sender.sent[1])
}
