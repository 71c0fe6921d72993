package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"oreledger/internal/certification"
	"oreledger/pkg/domain"
	"oreledger/pkg/platform/sentinel"
)

// Postgres persists the certifier roster and certification records.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) UpsertCertifier(ctx context.Context, c certification.Certifier) error {
	query := `
		INSERT INTO certifiers (address, active) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET active = EXCLUDED.active
	`
	if _, err := s.db.ExecContext(ctx, query, c.Address.String(), c.Active); err != nil {
		return fmt.Errorf("upsert certifier: %w", err)
	}
	return nil
}

func (s *Postgres) FindCertifier(ctx context.Context, address domain.Identity) (*certification.Certifier, error) {
	var c certification.Certifier
	var addr string
	err := s.db.QueryRowContext(ctx,
		`SELECT address, active FROM certifiers WHERE address = $1`, address.String(),
	).Scan(&addr, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select certifier: %w", err)
	}
	c.Address = domain.Identity(addr)
	return &c, nil
}

func (s *Postgres) CreateCertification(ctx context.Context, c *certification.Certification) error {
	query := `
		INSERT INTO certifications (batch_id, certifier, certification_date, expiration_date, standards, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (batch_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		c.BatchID, c.Certifier.String(), int64(c.CertificationDate), int64(c.ExpirationDate),
		pq.Array(c.Standards), string(c.Status), c.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert certification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert certification: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindCertification(ctx context.Context, batchID string) (*certification.Certification, error) {
	query := `
		SELECT batch_id, certifier, certification_date, expiration_date, standards, status, notes
		FROM certifications WHERE batch_id = $1
	`
	var (
		c         certification.Certification
		certifier string
		status    string
		certDate  int64
		expDate   int64
	)
	err := s.db.QueryRowContext(ctx, query, batchID).Scan(
		&c.BatchID, &certifier, &certDate, &expDate, pq.Array(&c.Standards), &status, &c.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select certification: %w", err)
	}
	c.Certifier = domain.Identity(certifier)
	c.CertificationDate = domain.LogicalTime(certDate)
	c.ExpirationDate = domain.LogicalTime(expDate)
	c.Status = certification.Status(status)
	return &c, nil
}

func (s *Postgres) RevokeCertification(ctx context.Context, batchID, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE certifications SET status = $2, notes = $3 WHERE batch_id = $1`,
		batchID, string(certification.StatusRevoked), reason,
	)
	if err != nil {
		return fmt.Errorf("revoke certification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke certification: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
