package hr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Employee, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, e *Employee) error
	SaveWithLock(ctx context.Context, e *Employee) error
	// SaveWithRegistrations persists the employee and registrations in one
	// transaction.
	SaveWithRegistrations(ctx context.Context, e *Employee, regs []*ProfessionalRegistration) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RegistrationRepository defines the interface for registration persistence
type RegistrationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProfessionalRegistration, error)
	FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]ProfessionalRegistration, error)
	FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]ProfessionalRegistration, error)
	Save(ctx context.Context, reg *ProfessionalRegistration) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
