// Package batch holds the Batch Ledger: batches of extracted material, their
// custody, and the append-only transfer log. Transfer sequence numbers come
// from a single counter shared across all batches and are never reused.
package batch

import (
	"fmt"

	"oreledger/pkg/domain"
)

// Status is the batch lifecycle tag.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusInTransit Status = "in-transit"
	StatusProcessed Status = "processed"
	StatusFinal     Status = "final"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusExtracted, StatusInTransit, StatusProcessed, StatusFinal:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown batch status: %q", s)
}

// transitions is the enforced status lattice. Final is terminal; a batch can
// bounce between in-transit and processed (re-shipment between facilities).
var transitions = map[Status][]Status{
	StatusExtracted: {StatusInTransit, StatusProcessed},
	StatusInTransit: {StatusProcessed, StatusFinal},
	StatusProcessed: {StatusInTransit, StatusFinal},
	StatusFinal:     {},
}

// CanTransitionTo reports whether next is reachable from s. Re-asserting the
// current status is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Batch is one quantity of extracted mineral with a single custodian at any
// time. Quantity is fixed at creation; only CurrentOwner and Status mutate.
type Batch struct {
	ID             string
	MineID         string
	MineralType    string
	Quantity       int64
	ExtractionDate domain.LogicalTime
	CurrentOwner   domain.Identity
	Status         Status
}

// Transfer is one immutable custody change, keyed by (BatchID, Sequence).
type Transfer struct {
	BatchID   string
	Sequence  domain.SequenceNumber
	From      domain.Identity
	To        domain.Identity
	Timestamp domain.LogicalTime
	Location  string
}
