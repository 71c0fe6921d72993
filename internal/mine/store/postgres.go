package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"oreledger/internal/mine"
	"oreledger/pkg/domain"
	"oreledger/pkg/platform/sentinel"
)

// Postgres persists mine records. Each mutation is one statement, so the
// database's own isolation gives the required atomicity.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, m *mine.Mine) error {
	query := `
		INSERT INTO mines (mine_id, owner_identity, location, minerals, verified, verification_date, verifier)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (mine_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		m.ID, m.Owner.String(), m.Location, pq.Array(m.Minerals),
		m.Verified, int64(m.VerificationDate), m.Verifier.String(),
	)
	if err != nil {
		return fmt.Errorf("insert mine: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert mine: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*mine.Mine, error) {
	query := `
		SELECT mine_id, owner_identity, location, minerals, verified, verification_date, verifier
		FROM mines WHERE mine_id = $1
	`
	var (
		m        mine.Mine
		owner    string
		verifier string
		date     int64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &owner, &m.Location, pq.Array(&m.Minerals), &m.Verified, &date, &verifier,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select mine: %w", err)
	}
	m.Owner = domain.Identity(owner)
	m.Verifier = domain.Identity(verifier)
	m.VerificationDate = domain.LogicalTime(date)
	return &m, nil
}

func (s *Postgres) SetVerified(ctx context.Context, id string, verifier domain.Identity, at domain.LogicalTime) error {
	query := `
		UPDATE mines SET verified = TRUE, verification_date = $2, verifier = $3
		WHERE mine_id = $1
	`
	res, err := s.db.ExecContext(ctx, query, id, int64(at), verifier.String())
	if err != nil {
		return fmt.Errorf("verify mine: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify mine: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
