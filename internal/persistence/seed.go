package persistence

import (
	"context"

	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
)

// SeedDefaultDepartments upserts the four fixed departments at startup.
// Existing rows are left untouched so admin edits survive restarts.
func SeedDefaultDepartments(ctx context.Context, departments repository.DepartmentRepository, logger *zap.Logger) error {
	for _, dept := range domain.DefaultDepartments() {
		dept := dept
		if err := departments.Upsert(ctx, &dept); err != nil {
			return err
		}
		logger.Debug("seeded department", zap.String("department_id", dept.ID))
	}
	logger.Info("default departments ensured")
	return nil
}
