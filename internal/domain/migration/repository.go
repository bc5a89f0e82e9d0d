package migration

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ImportJobRepository defines the interface for import job persistence
type ImportJobRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ImportJob, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ImportJob, error)
	Save(ctx context.Context, job *ImportJob) error
}
