// internal/infra/database/journal.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"autoverify/internal/application/mint"
)

// ReceiptJournal is an insert-only Postgres record of executed operations.
// Purely observational: the execution environment, not the journal, is the
// source of truth.
type ReceiptJournal struct {
	DB *sql.DB
}

// OpenJournal connects and ensures the receipts table exists.
func OpenJournal(ctx context.Context, dsn string) (*ReceiptJournal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS receipts (
  id              TEXT PRIMARY KEY,
  label           TEXT NOT NULL,
  steps           TEXT NOT NULL,
  units_requested BIGINT NOT NULL,
  units_consumed  BIGINT NOT NULL,
  executed_at     TIMESTAMPTZ NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: ensure schema: %w", err)
	}

	log.Println("[autoverify-journal] connected")
	return &ReceiptJournal{DB: db}, nil
}

// Record appends one receipt.
func (j *ReceiptJournal) Record(ctx context.Context, r *mint.Receipt) error {
	if j == nil || j.DB == nil {
		return fmt.Errorf("journal: not configured")
	}
	const q = `
INSERT INTO receipts (id, label, steps, units_requested, units_consumed, executed_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := j.DB.ExecContext(ctx, q,
		r.ID, r.Label, strings.Join(r.Steps, ","),
		int64(r.UnitsRequested), int64(r.UnitsConsumed), r.ExecutedAt)
	if err != nil {
		return fmt.Errorf("journal: insert receipt %s: %w", r.ID, err)
	}
	return nil
}

func (j *ReceiptJournal) Close() error {
	if j == nil || j.DB == nil {
		return nil
	}
	return j.DB.Close()
}
