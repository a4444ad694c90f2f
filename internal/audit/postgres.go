package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder appends audit entries to the audit_log table.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder builds the recorder.
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// Record inserts one entry.
func (r *PostgresRecorder) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO audit_log (id, actor_id, actor_name, action, entity_type, entity_id, entity_name, changes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.ActorName,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.EntityName,
		entry.Changes,
	)
	return err
}
