package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	LeadRecords string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		LeadRecords: fmt.Sprintf("%slead_records", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// When the database sits behind a transaction-pooling PgBouncer (port 6543 on
// managed Postgres offerings), prepared statements break with "prepared
// statement already exists". QueryExecModeCacheDescribe keeps the extended
// protocol (needed for JSONB encoding of map values) without creating named
// prepared statements, so it works on both direct and pooled connections.
// An explicit default_query_exec_mode in the connection string takes
// precedence over this auto-detection.
//
// The fmt.Sprintf table-prefix interpolation (dev_, test_, prod_) happens
// before SQL reaches the database, so each environment gets its own
// statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
