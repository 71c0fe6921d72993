// Package clock provides the logical ledger clock. Records are dated with a
// monotonically non-decreasing height rather than wall time, so audit order
// is total and replayable.
package clock

import (
	"context"
	"sync/atomic"
	"time"

	"oreledger/pkg/domain"
)

// Clock supplies the current logical time to the registries.
type Clock interface {
	Now() domain.LogicalTime
}

// Ledger is the production clock: a single height counter advanced on a fixed
// interval. It never goes backwards.
type Ledger struct {
	height atomic.Uint64
}

// NewLedger returns a ledger clock starting at the given height.
func NewLedger(start uint64) *Ledger {
	l := &Ledger{}
	l.height.Store(start)
	return l
}

// Now returns the current height.
func (l *Ledger) Now() domain.LogicalTime {
	return domain.LogicalTime(l.height.Load())
}

// Advance increments the height and returns the new value.
func (l *Ledger) Advance() domain.LogicalTime {
	return domain.LogicalTime(l.height.Add(1))
}

// Run advances the height on the given interval until the context is done.
func (l *Ledger) Run(ctx context.Context, tick time.Duration) error {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			l.Advance()
		}
	}
}
