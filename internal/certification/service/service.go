package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"

	"oreledger/internal/audit"
	"oreledger/internal/certification"
	"oreledger/internal/platform/clock"
	"oreledger/internal/platform/tracing"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
	"oreledger/pkg/platform/sentinel"
)

// Store is the persistence surface the service needs.
type Store interface {
	UpsertCertifier(ctx context.Context, c certification.Certifier) error
	FindCertifier(ctx context.Context, address domain.Identity) (*certification.Certifier, error)
	CreateCertification(ctx context.Context, c *certification.Certification) error
	FindCertification(ctx context.Context, batchID string) (*certification.Certification, error)
	RevokeCertification(ctx context.Context, batchID, reason string) error
}

// BatchLookup is the Batch Ledger existence read performed at issuance.
type BatchLookup interface {
	BatchExists(ctx context.Context, batchID string) (bool, error)
}

// AuditPublisher records successful mutations on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the certifier roster and certification issuance. The
// configured registry owner manages the roster and is implicitly an active
// certifier until explicitly removed.
type Service struct {
	store   Store
	batches BatchLookup
	clock   clock.Clock
	audit   AuditPublisher
	owner   domain.Identity
}

func NewService(store Store, batches BatchLookup, clk clock.Clock, auditor AuditPublisher, owner domain.Identity) *Service {
	return &Service{store: store, batches: batches, clock: clk, audit: auditor, owner: owner}
}

// AddCertifier activates an address on the roster. Owner only.
func (s *Service) AddCertifier(ctx context.Context, caller, address domain.Identity) error {
	ctx, span := tracing.Start(ctx, "certification.add_certifier")
	defer span.End()

	if caller != s.owner {
		return dErrors.New(dErrors.CodeCertNotAuthorized, "only the registry owner may manage certifiers")
	}
	if address.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "certifier address must not be empty")
	}
	if err := s.store.UpsertCertifier(ctx, certification.Certifier{Address: address, Active: true}); err != nil {
		return dErrors.New(dErrors.CodeInternal, "failed to add certifier")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  s.clock.Now(),
		Actor:   caller,
		Subject: address.String(),
		Action:  audit.ActionCertifierAdded,
	})
	return nil
}

// RemoveCertifier deactivates an address. Owner only. Removing an address
// that was never added is an allowed no-op from the caller's view; the
// inactive record is still written so even the owner's implicit status can be
// revoked.
func (s *Service) RemoveCertifier(ctx context.Context, caller, address domain.Identity) error {
	ctx, span := tracing.Start(ctx, "certification.remove_certifier")
	defer span.End()

	if caller != s.owner {
		return dErrors.New(dErrors.CodeCertNotAuthorized, "only the registry owner may manage certifiers")
	}
	if err := s.store.UpsertCertifier(ctx, certification.Certifier{Address: address, Active: false}); err != nil {
		return dErrors.New(dErrors.CodeInternal, "failed to remove certifier")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  s.clock.Now(),
		Actor:   caller,
		Subject: address.String(),
		Action:  audit.ActionCertifierRemoved,
	})
	return nil
}

// CertifyBatch issues a certification for a batch. The caller must be an
// active certifier, the batch must exist, and no certification record may
// already exist for the batch — revoked ones included.
func (s *Service) CertifyBatch(ctx context.Context, caller domain.Identity, batchID string, standards []string, validityPeriod uint64, notes string) error {
	ctx, span := tracing.Start(ctx, "certification.certify_batch")
	defer span.End()

	active, err := s.isActiveCertifier(ctx, caller)
	if err != nil {
		return dErrors.New(dErrors.CodeInternal, "failed to check certifier roster")
	}
	if !active {
		return dErrors.New(dErrors.CodeCertNotAuthorized, "caller is not an active certifier")
	}

	exists, err := s.batches.BatchExists(ctx, batchID)
	if err != nil {
		return dErrors.New(dErrors.CodeInternal, "failed to look up batch")
	}
	if !exists {
		return dErrors.Newf(dErrors.CodeBatchNotFound, "batch %q not registered", batchID)
	}

	now := s.clock.Now()
	cert := &certification.Certification{
		BatchID:           batchID,
		Certifier:         caller,
		CertificationDate: now,
		ExpirationDate:    now + domain.LogicalTime(validityPeriod),
		Standards:         standards,
		Status:            certification.StatusValid,
		Notes:             notes,
	}
	if err := s.store.CreateCertification(ctx, cert); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeAlreadyCertified, "batch %q already has a certification record", batchID)
		}
		return dErrors.New(dErrors.CodeInternal, "failed to issue certification")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  now,
		Actor:   caller,
		Subject: batchID,
		Action:  audit.ActionCertificationIssued,
	})
	return nil
}

// RevokeCertification permanently revokes and overwrites the notes with the
// reason. Only the issuing certifier or the registry owner may revoke. The
// prior notes ride along on the audit event so the trail keeps them.
func (s *Service) RevokeCertification(ctx context.Context, caller domain.Identity, batchID, reason string) error {
	ctx, span := tracing.Start(ctx, "certification.revoke")
	defer span.End()

	cert, err := s.store.FindCertification(ctx, batchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeCertificationNotFound, "no certification for batch %q", batchID)
		}
		return dErrors.New(dErrors.CodeInternal, "failed to load certification")
	}
	if caller != cert.Certifier && caller != s.owner {
		return dErrors.New(dErrors.CodeCertNotAuthorized, "only the issuing certifier or registry owner may revoke")
	}

	if err := s.store.RevokeCertification(ctx, batchID, reason); err != nil {
		return dErrors.New(dErrors.CodeInternal, "failed to revoke certification")
	}

	_ = s.audit.Emit(ctx, audit.Event{
		Height:  s.clock.Now(),
		Actor:   caller,
		Subject: batchID,
		Action:  audit.ActionCertificationRevoked,
		Reason:  reason,
		Detail:  cert.Notes,
	})
	return nil
}

// Get returns the certification record for a batch, or nil when absent.
func (s *Service) Get(ctx context.Context, batchID string) (*certification.Certification, error) {
	cert, err := s.store.FindCertification(ctx, batchID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load certification")
	}
	return cert, nil
}

// IsCertifier reports whether the address is currently active. Unknown
// addresses read false, except the owner's implicit membership.
func (s *Service) IsCertifier(ctx context.Context, address domain.Identity) (bool, error) {
	active, err := s.isActiveCertifier(ctx, address)
	if err != nil {
		return false, dErrors.New(dErrors.CodeInternal, "failed to check certifier roster")
	}
	return active, nil
}

func (s *Service) isActiveCertifier(ctx context.Context, address domain.Identity) (bool, error) {
	if address.IsNil() {
		return false, nil
	}
	c, err := s.store.FindCertifier(ctx, address)
	if errors.Is(err, sentinel.ErrNotFound) {
		// The owner is implicitly active until an explicit removal writes an
		// inactive roster record.
		return address == s.owner, nil
	}
	if err != nil {
		return false, err
	}
	return c.Active, nil
}
