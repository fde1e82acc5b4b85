package lead

import (
	"context"
	"fmt"
	"log/slog"

	leadModels "leadgate/internal/domain/models/lead"
	"leadgate/internal/domain/repositories"
	leadRepo "leadgate/internal/domain/repositories/lead"
	"leadgate/internal/repository/postgres"
)

// PostgresRecordRepository implements the RecordRepository interface using
// PostgreSQL. The record is stored as a single JSONB column keyed by session
// id, replaced wholesale on every upsert.
type PostgresRecordRepository struct {
	db     repositories.DBTX
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewRecordRepository creates a new PostgresRecordRepository
func NewRecordRepository(config *postgres.RepositoryConfig) leadRepo.RecordRepository {
	return &PostgresRecordRepository{
		db:     config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Upsert creates or replaces the stored record for a session
func (r *PostgresRecordRepository) Upsert(ctx context.Context, sessionID, language string, record leadModels.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, language, record, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id) DO UPDATE SET
			language = EXCLUDED.language,
			record = EXCLUDED.record,
			updated_at = EXCLUDED.updated_at
	`, r.tables.LeadRecords)

	if _, err := r.db.Exec(ctx, query, sessionID, language, record); err != nil {
		return fmt.Errorf("upsert lead record: %w", err)
	}

	return nil
}

// GetBySessionID retrieves the stored record for a session.
// Returns nil (not an error) when nothing has been persisted yet.
func (r *PostgresRecordRepository) GetBySessionID(ctx context.Context, sessionID string) (leadModels.Record, error) {
	query := fmt.Sprintf(`
		SELECT record FROM %s WHERE session_id = $1
	`, r.tables.LeadRecords)

	var record leadModels.Record
	err := r.db.QueryRow(ctx, query, sessionID).Scan(&record)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead record: %w", err)
	}

	return record, nil
}
