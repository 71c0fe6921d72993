package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"oreledger/pkg/domain"
)

// Actions recorded on the audit trail. One event per successful mutation.
const (
	ActionMineRegistered       = "mine.registered"
	ActionMineVerified         = "mine.verified"
	ActionBatchRegistered      = "batch.registered"
	ActionBatchTransferred     = "batch.transferred"
	ActionBatchStatusUpdated   = "batch.status_updated"
	ActionCertifierAdded       = "certifier.added"
	ActionCertifierRemoved     = "certifier.removed"
	ActionCertificationIssued  = "certification.issued"
	ActionCertificationRevoked = "certification.revoked"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Height    domain.LogicalTime
	Actor     domain.Identity
	Subject   string
	Action    string
	Reason    string
	Detail    string
}

// Store is an append-only sink for audit events. Events are never mutated or
// deleted once written.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
