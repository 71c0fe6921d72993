package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink receives events after they are durably appended, e.g. a Kafka
// producer. Sink failures are logged, not propagated: the store append is the
// source of truth and a slow broker must not fail a registry mutation.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

// Emit stamps and appends an event, then fans out to the sink when one is
// configured. Append failures are logged here as well as returned: the
// services treat the trail as best-effort and do not fail a committed
// mutation over it, so the log line is the only trace of a lost event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit append failed",
			"event_id", event.ID.String(),
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"event_id", event.ID.String(),
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}

// List returns the trail for one subject in append order.
func (p *Publisher) List(ctx context.Context, subject string) ([]Event, error) {
	return p.store.ListBySubject(ctx, subject)
}
