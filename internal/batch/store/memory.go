package store

import (
	"context"
	"sort"
	"sync"

	"oreledger/internal/batch"
	"oreledger/pkg/domain"
	"oreledger/pkg/platform/sentinel"
)

type transferKey struct {
	batchID  string
	sequence domain.SequenceNumber
}

// InMemory keeps batches, the transfer log, and the global sequence counter
// under one mutex. Allocating the sequence and writing the transfer happen in
// the same critical section, so sequences are strictly increasing with no
// gaps or duplicates across all batches.
type InMemory struct {
	mu        sync.RWMutex
	batches   map[string]batch.Batch
	transfers map[transferKey]batch.Transfer
	nextSeq   domain.SequenceNumber
}

func NewInMemory() *InMemory {
	return &InMemory{
		batches:   make(map[string]batch.Batch),
		transfers: make(map[transferKey]batch.Transfer),
	}
}

// Create inserts a new batch, failing with sentinel.ErrConflict when the id
// is taken.
func (s *InMemory) Create(_ context.Context, b *batch.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[b.ID]; ok {
		return sentinel.ErrConflict
	}
	s.batches[b.ID] = *b
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*batch.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &b, nil
}

// Transfer reassigns custody and appends the immutable transfer record. The
// custodian check, the owner update, the sequence allocation, and the log
// write are one atomic step; sentinel.ErrInvalidState means from is not the
// current custodian.
func (s *InMemory) Transfer(_ context.Context, batchID string, from, to domain.Identity, location string, at domain.LogicalTime) (domain.SequenceNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[batchID]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	if b.CurrentOwner != from {
		return 0, sentinel.ErrInvalidState
	}

	seq := s.nextSeq
	s.nextSeq++

	b.CurrentOwner = to
	s.batches[batchID] = b
	s.transfers[transferKey{batchID: batchID, sequence: seq}] = batch.Transfer{
		BatchID:   batchID,
		Sequence:  seq,
		From:      from,
		To:        to,
		Timestamp: at,
		Location:  location,
	}
	return seq, nil
}

// UpdateStatus sets the lifecycle tag. The custodian check and the lattice
// check both run against the stored record inside the critical section, so a
// caller holding a stale read cannot apply a transition the current status
// forbids.
func (s *InMemory) UpdateStatus(_ context.Context, batchID string, owner domain.Identity, status batch.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[batchID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if b.CurrentOwner != owner {
		return sentinel.ErrInvalidState
	}
	if !b.Status.CanTransitionTo(status) {
		return sentinel.ErrInvalidTransition
	}
	b.Status = status
	s.batches[batchID] = b
	return nil
}

func (s *InMemory) FindTransfer(_ context.Context, batchID string, seq domain.SequenceNumber) (*batch.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[transferKey{batchID: batchID, sequence: seq}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

// ListTransfers returns the batch's custody history in sequence order.
func (s *InMemory) ListTransfers(_ context.Context, batchID string) ([]batch.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []batch.Transfer
	for key, t := range s.transfers {
		if key.batchID == batchID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}
