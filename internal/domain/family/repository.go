package family

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ContactRepository defines the interface for family contact persistence
type ContactRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FamilyContact, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*FamilyContact, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]FamilyContact, error)
	Save(ctx context.Context, c *FamilyContact) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// UpdateRepository defines the interface for portal update persistence
type UpdateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PortalUpdate, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]PortalUpdate, error)
	Save(ctx context.Context, u *PortalUpdate) error
	SaveWithLock(ctx context.Context, u *PortalUpdate) error
}
