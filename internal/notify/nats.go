// Package notify publishes dispatch outcomes to NATS.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/version"
)

const flushTimeout = 5 * time.Second

// OutcomeEvent is the JSON payload published for every outcome.
type OutcomeEvent struct {
	Type      string        `json:"type"`
	Tool      string        `json:"tool_version"`
	Timestamp time.Time     `json:"timestamp"`
	Outcome   build.Outcome `json:"outcome"`
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes outcomes on <subject>.<platform label>.
type NATSPublisher struct {
	conn    conn
	subject string
	now     func() time.Time
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("autobuilder"),
		nats.Timeout(flushTimeout),
	)
	if err != nil {
		return nil, abErrors.NotifyError(subject, err).WithContext("url", url)
	}

	slog.Info("NATS outcome publisher connected", "url", url, "subject", subject)
	return newPublisher(nc, subject), nil
}

func newPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject, now: time.Now}
}

// Subject returns the subject an outcome for platformLabel is published on.
func (p *NATSPublisher) Subject(platformLabel string) string {
	return p.subject + "." + strings.ToLower(platformLabel)
}

// HandleOutcome publishes the outcome and waits for the server to acknowledge
// the flush. It implements build.OutcomeSink.
func (p *NATSPublisher) HandleOutcome(ctx context.Context, o build.Outcome) error {
	subject := p.Subject(o.PlatformLabel)
	data, err := json.Marshal(OutcomeEvent{
		Type:      "dispatch.outcome",
		Tool:      version.Version,
		Timestamp: p.now(),
		Outcome:   o,
	})
	if err != nil {
		return abErrors.NotifyError(subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return abErrors.NotifyError(subject, err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return abErrors.NotifyError(subject, err)
	}

	slog.DebugContext(ctx, "Published outcome event", "subject", subject)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
