package lead

import (
	"context"

	"leadgate/internal/domain/models/lead"
)

// RecordRepository is the progressive-persistence store for accumulated lead
// records. Upsert is called after every merge as a safety net; failures are
// logged by callers and never surfaced to the visitor.
type RecordRepository interface {
	// Upsert creates or replaces the stored record for a session.
	Upsert(ctx context.Context, sessionID, language string, record lead.Record) error

	// GetBySessionID retrieves the stored record for a session.
	// Returns nil (not an error) when nothing has been persisted yet.
	GetBySessionID(ctx context.Context, sessionID string) (lead.Record, error)
}
