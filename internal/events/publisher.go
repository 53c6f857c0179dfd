// Package events publishes domain events after a write has been committed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
)

const (
	SubjectApplicationCreated       = "jobboard.application.created"
	SubjectApplicationStatusChanged = "jobboard.application.status_changed"
	SubjectJobStatusChanged         = "jobboard.job.status_changed"

	connectTimeout = 10 * time.Second
)

type ApplicationCreated struct {
	ApplicationID string    `json:"applicationId"`
	JobID         string    `json:"jobId"`
	JobSeekerID   string    `json:"jobSeekerId"`
	AppliedAt     time.Time `json:"appliedAt"`
}

type ApplicationStatusChanged struct {
	ApplicationID string    `json:"applicationId"`
	JobID         string    `json:"jobId"`
	JobSeekerID   string    `json:"jobSeekerId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ChangedAt     time.Time `json:"changedAt"`
}

type JobStatusChanged struct {
	JobID      string    `json:"jobId"`
	EmployerID string    `json:"employerId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ChangedAt  time.Time `json:"changedAt"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.SugaredLogger
}

// NewPublisher connects to NATS at url. An empty url yields a publisher that
// drops every event.
func NewPublisher(url string, logger *zap.SugaredLogger) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	opts := []nats.Option{
		nats.Name("jobboard-api"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, apperr.Internal("connecting to NATS", err)
	}
	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return apperr.Internal("marshaling event", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return apperr.Internal("publishing to NATS", err)
	}
	p.logger.Debugw("published event", "subject", subject, "size", len(data))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close()                                     {}

// Emit publishes event and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, logger *zap.SugaredLogger, subject string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, event); err != nil {
		logger.Warnw("publish event failed", "subject", subject, "err", err)
	}
}
