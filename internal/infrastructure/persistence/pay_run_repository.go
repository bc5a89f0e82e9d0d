package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/payroll"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormRunRepository implements RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// FindByIDForTenant finds a pay run by ID within a tenant
func (r *GormRunRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.PayRun, error) {
	var run payroll.PayRun
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByPeriod finds the pay run for one period within a tenant
func (r *GormRunRepository) FindByPeriod(ctx context.Context, tenantID uuid.UUID, period payroll.Period) (*payroll.PayRun, error) {
	var run payroll.PayRun
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND tax_year = ? AND period_number = ? AND frequency = ?",
			tenantID, period.TaxYear, period.Number, period.Frequency).
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindAllForTenant finds all pay runs for a tenant
func (r *GormRunRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payroll.PayRun, error) {
	var runs []payroll.PayRun
	query := r.db.WithContext(ctx).Model(&payroll.PayRun{}).Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "tax_year":
			query = query.Where("tax_year = ?", value)
		}
	}
	query = applyPagination(query, filter, "tax_year DESC, period_number DESC")
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Save creates or updates a pay run
func (r *GormRunRepository) Save(ctx context.Context, run *payroll.PayRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// SaveWithLock saves a pay run with optimistic locking (version check)
func (r *GormRunRepository) SaveWithLock(ctx context.Context, run *payroll.PayRun) error {
	result := r.db.WithContext(ctx).
		Model(run).
		Where("id = ? AND version = ?", run.ID, run.Version-1).
		Updates(run)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The pay run has been modified by another transaction")
	}
	return nil
}

// Ensure GormRunRepository implements RunRepository
var _ payroll.RunRepository = (*GormRunRepository)(nil)
