package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"oreledger/internal/batch"
	"oreledger/pkg/domain"
	"oreledger/pkg/platform/sentinel"
)

// Postgres persists batches and the transfer log. Custody transfers run in a
// single transaction that locks the batch row, allocates the next global
// sequence from the one-row counter table, and appends the transfer, so the
// sequencing invariant holds under concurrent callers.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, b *batch.Batch) error {
	query := `
		INSERT INTO batches (batch_id, mine_id, mineral_type, quantity, extraction_date, current_owner, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (batch_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		b.ID, b.MineID, b.MineralType, b.Quantity,
		int64(b.ExtractionDate), b.CurrentOwner.String(), string(b.Status),
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*batch.Batch, error) {
	query := `
		SELECT batch_id, mine_id, mineral_type, quantity, extraction_date, current_owner, status
		FROM batches WHERE batch_id = $1
	`
	return scanBatch(s.db.QueryRowContext(ctx, query, id))
}

func (s *Postgres) Transfer(ctx context.Context, batchID string, from, to domain.Identity, location string, at domain.LogicalTime) (domain.SequenceNumber, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT current_owner FROM batches WHERE batch_id = $1 FOR UPDATE`, batchID,
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock batch: %w", err)
	}
	if domain.Identity(owner) != from {
		return 0, sentinel.ErrInvalidState
	}

	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE transfer_sequence SET next = next + 1 WHERE id = 0 RETURNING next - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("allocate sequence: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE batches SET current_owner = $2 WHERE batch_id = $1`, batchID, to.String(),
	); err != nil {
		return 0, fmt.Errorf("update custodian: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transfers (batch_id, sequence, from_owner, to_owner, recorded_at, location)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		batchID, seq, from.String(), to.String(), int64(at), location,
	); err != nil {
		return 0, fmt.Errorf("append transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transfer: %w", err)
	}
	return domain.SequenceNumber(seq), nil
}

// UpdateStatus sets the lifecycle tag inside a transaction that locks the
// batch row, so the custodian and lattice checks see the committed status and
// not a stale read.
func (s *Postgres) UpdateStatus(ctx context.Context, batchID string, owner domain.Identity, status batch.Status) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current, currentOwner string
	err = tx.QueryRowContext(ctx,
		`SELECT status, current_owner FROM batches WHERE batch_id = $1 FOR UPDATE`, batchID,
	).Scan(&current, &currentOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock batch: %w", err)
	}
	if domain.Identity(currentOwner) != owner {
		return sentinel.ErrInvalidState
	}
	if !batch.Status(current).CanTransitionTo(status) {
		return sentinel.ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE batches SET status = $2 WHERE batch_id = $1`, batchID, string(status),
	); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

func (s *Postgres) FindTransfer(ctx context.Context, batchID string, seq domain.SequenceNumber) (*batch.Transfer, error) {
	query := `
		SELECT batch_id, sequence, from_owner, to_owner, recorded_at, location
		FROM transfers WHERE batch_id = $1 AND sequence = $2
	`
	return scanTransfer(s.db.QueryRowContext(ctx, query, batchID, int64(seq)))
}

func (s *Postgres) ListTransfers(ctx context.Context, batchID string) ([]batch.Transfer, error) {
	query := `
		SELECT batch_id, sequence, from_owner, to_owner, recorded_at, location
		FROM transfers WHERE batch_id = $1 ORDER BY sequence
	`
	rows, err := s.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var out []batch.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*batch.Batch, error) {
	var (
		b      batch.Batch
		owner  string
		status string
		date   int64
	)
	err := row.Scan(&b.ID, &b.MineID, &b.MineralType, &b.Quantity, &date, &owner, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	b.ExtractionDate = domain.LogicalTime(date)
	b.CurrentOwner = domain.Identity(owner)
	b.Status = batch.Status(status)
	return &b, nil
}

func scanTransfer(row rowScanner) (*batch.Transfer, error) {
	var (
		t        batch.Transfer
		seq      int64
		from, to string
		at       int64
	)
	err := row.Scan(&t.BatchID, &seq, &from, &to, &at, &t.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transfer: %w", err)
	}
	t.Sequence = domain.SequenceNumber(seq)
	t.From = domain.Identity(from)
	t.To = domain.Identity(to)
	t.Timestamp = domain.LogicalTime(at)
	return &t, nil
}
