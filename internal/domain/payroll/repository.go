package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// RecordRepository defines the interface for payroll record persistence
type RecordRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PayrollRecord, error)
	FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, period Period) (*PayrollRecord, error)
	FindByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]PayrollRecord, error)
	FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]PayrollRecord, error)
	Save(ctx context.Context, rec *PayrollRecord) error
	SaveBatch(ctx context.Context, recs []*PayrollRecord) error
	DeleteDraftsByRun(ctx context.Context, tenantID, runID uuid.UUID) error
}

// RunRepository defines the interface for pay run persistence
type RunRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PayRun, error)
	FindByPeriod(ctx context.Context, tenantID uuid.UUID, period Period) (*PayRun, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PayRun, error)
	Save(ctx context.Context, run *PayRun) error
	SaveWithLock(ctx context.Context, run *PayRun) error
}
