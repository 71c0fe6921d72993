package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the ledger tables when they do not exist yet. The
// transfer sequence lives in a one-row counter table so allocation can happen
// inside the same transaction as the transfer insert.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS mines (
			mine_id           TEXT PRIMARY KEY,
			owner_identity    TEXT NOT NULL,
			location          TEXT NOT NULL,
			minerals          TEXT[] NOT NULL,
			verified          BOOLEAN NOT NULL DEFAULT FALSE,
			verification_date BIGINT NOT NULL DEFAULT 0,
			verifier          TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS batches (
			batch_id        TEXT PRIMARY KEY,
			mine_id         TEXT NOT NULL,
			mineral_type    TEXT NOT NULL,
			quantity        BIGINT NOT NULL,
			extraction_date BIGINT NOT NULL,
			current_owner   TEXT NOT NULL,
			status          TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transfers (
			batch_id     TEXT NOT NULL,
			sequence     BIGINT NOT NULL,
			from_owner   TEXT NOT NULL,
			to_owner     TEXT NOT NULL,
			recorded_at  BIGINT NOT NULL,
			location     TEXT NOT NULL,
			PRIMARY KEY (batch_id, sequence)
		)`,
		`CREATE TABLE IF NOT EXISTS transfer_sequence (
			id   INT PRIMARY KEY CHECK (id = 0),
			next BIGINT NOT NULL
		)`,
		`INSERT INTO transfer_sequence (id, next) VALUES (0, 0) ON CONFLICT (id) DO NOTHING`,
		`CREATE TABLE IF NOT EXISTS certifiers (
			address TEXT PRIMARY KEY,
			active  BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS certifications (
			batch_id           TEXT PRIMARY KEY,
			certifier          TEXT NOT NULL,
			certification_date BIGINT NOT NULL,
			expiration_date    BIGINT NOT NULL,
			standards          TEXT[] NOT NULL,
			status             TEXT NOT NULL,
			notes              TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
