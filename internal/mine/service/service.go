package service

import (
	"context"
	"errors"

	"oreledger/internal/audit"
	"oreledger/internal/mine"
	"oreledger/internal/platform/clock"
	"oreledger/internal/platform/tracing"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
	"oreledger/pkg/platform/sentinel"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, m *mine.Mine) error
	FindByID(ctx context.Context, id string) (*mine.Mine, error)
	SetVerified(ctx context.Context, id string, verifier domain.Identity, at domain.LogicalTime) error
}

// AuditPublisher records successful mutations on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the mine verification state machine: created unverified,
// verified only by the owner, never deleted.
type Service struct {
	store Store
	clock clock.Clock
	audit AuditPublisher
}

func NewService(store Store, clk clock.Clock, auditor AuditPublisher) *Service {
	return &Service{store: store, clock: clk, audit: auditor}
}

// Register creates a mine owned by the caller. The verifier field holds the
// owner as a placeholder until verification.
func (s *Service) Register(ctx context.Context, caller domain.Identity, mineID, location string, minerals []string) error {
	ctx, span := tracing.Start(ctx, "mine.register")
	defer span.End()

	if caller.IsNil() {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller identity required")
	}
	if mineID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "mine id must not be empty")
	}

	m := &mine.Mine{
		ID:       mineID,
		Owner:    caller,
		Location: location,
		Minerals: minerals,
		Verifier: caller,
	}
	if err := s.store.Create(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeMineExists, "mine %q already registered", mineID)
		}
		return dErrors.New(dErrors.CodeInternal, "failed to register mine")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  s.clock.Now(),
		Actor:   caller,
		Subject: mineID,
		Action:  audit.ActionMineRegistered,
		Detail:  location,
	})
	return nil
}

// Verify marks the mine verified by its owner and stamps the current ledger
// height. Re-invocation by the owner re-stamps the date.
func (s *Service) Verify(ctx context.Context, caller domain.Identity, mineID string) error {
	ctx, span := tracing.Start(ctx, "mine.verify")
	defer span.End()

	m, err := s.store.FindByID(ctx, mineID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeMineNotFound, "mine %q not registered", mineID)
		}
		return dErrors.New(dErrors.CodeInternal, "failed to load mine")
	}
	if m.Owner != caller {
		return dErrors.New(dErrors.CodeNotAuthorized, "only the mine owner may verify")
	}

	now := s.clock.Now()
	if err := s.store.SetVerified(ctx, mineID, caller, now); err != nil {
		return dErrors.New(dErrors.CodeInternal, "failed to verify mine")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  now,
		Actor:   caller,
		Subject: mineID,
		Action:  audit.ActionMineVerified,
	})
	return nil
}

// Details returns the mine record, or nil when absent.
func (s *Service) Details(ctx context.Context, mineID string) (*mine.Mine, error) {
	m, err := s.store.FindByID(ctx, mineID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load mine")
	}
	return m, nil
}

// IsVerified reports the verification flag; an absent mine reads false.
func (s *Service) IsVerified(ctx context.Context, mineID string) (bool, error) {
	m, err := s.Details(ctx, mineID)
	if err != nil {
		return false, err
	}
	return m != nil && m.Verified, nil
}

// MineVerified is the lookup the Batch Ledger injects at batch registration.
// It returns sentinel.ErrNotFound for unknown mines so the caller can
// distinguish missing from unverified.
func (s *Service) MineVerified(ctx context.Context, mineID string) (bool, error) {
	m, err := s.store.FindByID(ctx, mineID)
	if err != nil {
		return false, err
	}
	return m.Verified, nil
}
