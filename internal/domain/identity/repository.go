package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	FindAllActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CareHomeRepository defines the interface for care home persistence
type CareHomeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CareHome, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CareHome, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, home *CareHome) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	Save(ctx context.Context, user *User) error
	SaveWithLock(ctx context.Context, user *User) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Role, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Role, error)
	Save(ctx context.Context, role *Role) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
