package store

import (
	"context"
	"sync"

	"oreledger/internal/certification"
	"oreledger/pkg/domain"
	"oreledger/pkg/platform/sentinel"
)

// InMemory keeps the certifier roster and certification records under one
// mutex, mutations serialized for the full call.
type InMemory struct {
	mu             sync.RWMutex
	certifiers     map[domain.Identity]certification.Certifier
	certifications map[string]certification.Certification
}

func NewInMemory() *InMemory {
	return &InMemory{
		certifiers:     make(map[domain.Identity]certification.Certifier),
		certifications: make(map[string]certification.Certification),
	}
}

func (s *InMemory) UpsertCertifier(_ context.Context, c certification.Certifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certifiers[c.Address] = c
	return nil
}

func (s *InMemory) FindCertifier(_ context.Context, address domain.Identity) (*certification.Certifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certifiers[address]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

// CreateCertification enforces the at-most-one-record-per-batch invariant;
// revoked records block as hard as valid ones.
func (s *InMemory) CreateCertification(_ context.Context, c *certification.Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certifications[c.BatchID]; ok {
		return sentinel.ErrConflict
	}
	s.certifications[c.BatchID] = cloneCertification(c)
	return nil
}

func (s *InMemory) FindCertification(_ context.Context, batchID string) (*certification.Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certifications[batchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := cloneCertification(&c)
	return &out, nil
}

// RevokeCertification flips the status and overwrites the notes with the
// revocation reason. One-way: a revoked record stays revoked.
func (s *InMemory) RevokeCertification(_ context.Context, batchID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certifications[batchID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Status = certification.StatusRevoked
	c.Notes = reason
	s.certifications[batchID] = c
	return nil
}

func cloneCertification(c *certification.Certification) certification.Certification {
	out := *c
	out.Standards = append([]string(nil), c.Standards...)
	return out
}
