package service

import (
	"context"
	"errors"

	"oreledger/internal/audit"
	"oreledger/internal/batch"
	"oreledger/internal/platform/clock"
	"oreledger/internal/platform/tracing"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
	"oreledger/pkg/platform/sentinel"
)

// Store is the persistence surface the service needs. Transfer and
// UpdateStatus perform their custodian checks inside the store's critical
// section, and UpdateStatus also enforces the status lattice there, so
// check-and-mutate stays atomic.
type Store interface {
	Create(ctx context.Context, b *batch.Batch) error
	FindByID(ctx context.Context, id string) (*batch.Batch, error)
	Transfer(ctx context.Context, batchID string, from, to domain.Identity, location string, at domain.LogicalTime) (domain.SequenceNumber, error)
	UpdateStatus(ctx context.Context, batchID string, owner domain.Identity, status batch.Status) error
	FindTransfer(ctx context.Context, batchID string, seq domain.SequenceNumber) (*batch.Transfer, error)
	ListTransfers(ctx context.Context, batchID string) ([]batch.Transfer, error)
}

// MineLookup is the Mine Registry read the ledger performs at batch
// registration. sentinel.ErrNotFound means the mine is not registered.
type MineLookup interface {
	MineVerified(ctx context.Context, mineID string) (bool, error)
}

// AuditPublisher records successful mutations on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns batch custody: registration against a verified mine, owner-
// gated transfers with globally sequenced immutable records, and the status
// lifecycle.
type Service struct {
	store Store
	mines MineLookup
	clock clock.Clock
	audit AuditPublisher
}

func NewService(store Store, mines MineLookup, clk clock.Clock, auditor AuditPublisher) *Service {
	return &Service{store: store, mines: mines, clock: clk, audit: auditor}
}

// Register creates a batch owned by the caller in the extracted state. The
// mine reference is validated: it must exist and be verified.
func (s *Service) Register(ctx context.Context, caller domain.Identity, batchID, mineID, mineralType string, quantity int64) error {
	ctx, span := tracing.Start(ctx, "batch.register")
	defer span.End()

	if caller.IsNil() {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller identity required")
	}
	if batchID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "batch id must not be empty")
	}
	if quantity < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "quantity must be non-negative")
	}

	verified, err := s.mines.MineVerified(ctx, mineID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeMineNotFound, "mine %q not registered", mineID)
		}
		return dErrors.New(dErrors.CodeInternal, "failed to look up mine")
	}
	if !verified {
		return dErrors.Newf(dErrors.CodeMineNotFound, "mine %q is not verified", mineID)
	}

	now := s.clock.Now()
	b := &batch.Batch{
		ID:             batchID,
		MineID:         mineID,
		MineralType:    mineralType,
		Quantity:       quantity,
		ExtractionDate: now,
		CurrentOwner:   caller,
		Status:         batch.StatusExtracted,
	}
	if err := s.store.Create(ctx, b); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeBatchExists, "batch %q already registered", batchID)
		}
		return dErrors.New(dErrors.CodeInternal, "failed to register batch")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  now,
		Actor:   caller,
		Subject: batchID,
		Action:  audit.ActionBatchRegistered,
		Detail:  mineralType,
	})
	return nil
}

// Transfer moves custody to the recipient and returns the allocated global
// sequence number, the caller's handle for later history lookups.
func (s *Service) Transfer(ctx context.Context, caller domain.Identity, batchID string, recipient domain.Identity, location string) (domain.SequenceNumber, error) {
	ctx, span := tracing.Start(ctx, "batch.transfer")
	defer span.End()

	if recipient.IsNil() {
		return 0, dErrors.New(dErrors.CodeBadRequest, "recipient identity required")
	}

	now := s.clock.Now()
	seq, err := s.store.Transfer(ctx, batchID, caller, recipient, location, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return 0, dErrors.Newf(dErrors.CodeBatchNotFound, "batch %q not registered", batchID)
		case errors.Is(err, sentinel.ErrInvalidState):
			return 0, dErrors.New(dErrors.CodeNotOwner, "caller is not the current custodian")
		default:
			return 0, dErrors.New(dErrors.CodeInternal, "failed to transfer batch")
		}
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  now,
		Actor:   caller,
		Subject: batchID,
		Action:  audit.ActionBatchTransferred,
		Detail:  recipient.String(),
	})
	return seq, nil
}

// UpdateStatus moves the batch along the status lattice. Only the current
// custodian may update, and only transitions the lattice allows. Both checks
// run inside the store's critical section against the committed status, never
// against a read taken before it.
func (s *Service) UpdateStatus(ctx context.Context, caller domain.Identity, batchID, newStatus string) error {
	ctx, span := tracing.Start(ctx, "batch.update_status")
	defer span.End()

	status, err := batch.ParseStatus(newStatus)
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, err.Error())
	}

	if err := s.store.UpdateStatus(ctx, batchID, caller, status); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Newf(dErrors.CodeBatchNotFound, "batch %q not registered", batchID)
		case errors.Is(err, sentinel.ErrInvalidState):
			return dErrors.New(dErrors.CodeNotOwner, "caller is not the current custodian")
		case errors.Is(err, sentinel.ErrInvalidTransition):
			return dErrors.Newf(dErrors.CodeBadRequest, "status %q is not reachable from the batch's current status", status)
		default:
			return dErrors.New(dErrors.CodeInternal, "failed to update status")
		}
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  s.clock.Now(),
		Actor:   caller,
		Subject: batchID,
		Action:  audit.ActionBatchStatusUpdated,
		Detail:  string(status),
	})
	return nil
}

// Details returns the batch record, or nil when absent.
func (s *Service) Details(ctx context.Context, batchID string) (*batch.Batch, error) {
	b, err := s.store.FindByID(ctx, batchID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load batch")
	}
	return b, nil
}

// TransferRecord returns one custody record, or nil when absent.
func (s *Service) TransferRecord(ctx context.Context, batchID string, seq domain.SequenceNumber) (*batch.Transfer, error) {
	t, err := s.store.FindTransfer(ctx, batchID, seq)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load transfer")
	}
	return t, nil
}

// History returns the batch's custody records in sequence order.
func (s *Service) History(ctx context.Context, batchID string) ([]batch.Transfer, error) {
	ts, err := s.store.ListTransfers(ctx, batchID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to list transfers")
	}
	return ts, nil
}

// BatchExists is the lookup the Certification Registry injects.
func (s *Service) BatchExists(ctx context.Context, batchID string) (bool, error) {
	_, err := s.store.FindByID(ctx, batchID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
