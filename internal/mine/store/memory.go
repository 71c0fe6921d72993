package store

import (
	"context"
	"sync"

	"oreledger/internal/mine"
	"oreledger/pkg/domain"
	"oreledger/pkg/platform/sentinel"
)

// InMemory keeps mine records under one mutex held for the whole mutating
// call, which gives each operation the serialized, atomic semantics the
// registries rely on.
type InMemory struct {
	mu    sync.RWMutex
	mines map[string]mine.Mine
}

func NewInMemory() *InMemory {
	return &InMemory{mines: make(map[string]mine.Mine)}
}

// Create inserts a new mine, failing with sentinel.ErrConflict when the id is
// already taken.
func (s *InMemory) Create(_ context.Context, m *mine.Mine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mines[m.ID]; ok {
		return sentinel.ErrConflict
	}
	s.mines[m.ID] = cloneMine(m)
	return nil
}

// FindByID returns a copy of the record so callers cannot mutate store state.
func (s *InMemory) FindByID(_ context.Context, id string) (*mine.Mine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mines[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := cloneMine(&m)
	return &out, nil
}

// SetVerified flips the verification state. Re-verification by the owner
// re-stamps the date, matching the registry contract.
func (s *InMemory) SetVerified(_ context.Context, id string, verifier domain.Identity, at domain.LogicalTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mines[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	m.Verified = true
	m.VerificationDate = at
	m.Verifier = verifier
	s.mines[id] = m
	return nil
}

func cloneMine(m *mine.Mine) mine.Mine {
	out := *m
	out.Minerals = append([]string(nil), m.Minerals...)
	return out
}
