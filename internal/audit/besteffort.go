package audit

import (
	"context"

	"go.uber.org/zap"
)

// BestEffort wraps a Recorder so that sink failures are logged and swallowed.
// Audit completeness must never block a user-facing ticket operation.
type BestEffort struct {
	sink   Recorder
	logger *zap.Logger
}

// NewBestEffort builds the wrapper. A nil sink records nothing.
func NewBestEffort(sink Recorder, logger *zap.Logger) *BestEffort {
	return &BestEffort{sink: sink, logger: logger}
}

// Record writes the entry on a detached goroutine and always returns nil.
func (b *BestEffort) Record(_ context.Context, entry Entry) error {
	if b == nil || b.sink == nil {
		return nil
	}
	go func() {
		if err := b.sink.Record(context.Background(), entry); err != nil {
			b.logger.Warn("audit record failed",
				zap.String("action", string(entry.Action)),
				zap.String("entity_type", entry.EntityType),
				zap.String("entity_id", entry.EntityID),
				zap.Error(err))
		}
	}()
	return nil
}
