package compliance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// RequirementRepository defines the interface for requirement persistence
type RequirementRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ComplianceRequirement, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ComplianceRequirement, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]ComplianceRequirement, error)
	FindDueBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]ComplianceRequirement, error)
	Save(ctx context.Context, r *ComplianceRequirement) error
	// SaveWithEvent persists the requirement and completion evidence in one
	// transaction.
	SaveWithEvent(ctx context.Context, r *ComplianceRequirement, ev *ComplianceEvent) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// EventRepository defines the interface for compliance event persistence
type EventRepository interface {
	FindByRequirement(ctx context.Context, tenantID, requirementID uuid.UUID, filter shared.Filter) ([]ComplianceEvent, error)
	Save(ctx context.Context, ev *ComplianceEvent) error
}
