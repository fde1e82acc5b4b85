package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the lead-record table if it does not exist yet. The
// store is a safety net, not a system of record, so a single idempotent DDL
// statement at startup replaces a migration pipeline.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	createLeadRecords := `
		CREATE TABLE IF NOT EXISTS ` + tables.LeadRecords + ` (
			session_id UUID PRIMARY KEY,
			language TEXT NOT NULL DEFAULT 'en',
			record JSONB NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createLeadRecords); err != nil {
		return fmt.Errorf("create %s: %w", tables.LeadRecords, err)
	}

	return nil
}
