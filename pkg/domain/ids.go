package domain

// Identity is the opaque caller identity supplied by the execution host.
// The core never parses it; it is only compared for equality.
type Identity string

// IsNil returns true when no identity is present.
func (i Identity) IsNil() bool {
	return i == ""
}

// String returns the string representation of the identity.
func (i Identity) String() string {
	return string(i)
}

// LogicalTime is the host-supplied monotonically non-decreasing counter
// (a ledger height). All record dates use logical time, never wall clocks.
type LogicalTime uint64

// SequenceNumber identifies a custody transfer. Sequences are allocated from
// a single counter shared across all batches and are never reused.
type SequenceNumber uint64
