package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/payroll"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormRecordRepository implements RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByIDForTenant finds a payroll record by ID within a tenant
func (r *GormRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByEmployeeAndPeriod finds an employee's record for one pay period
func (r *GormRecordRepository) FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, period payroll.Period) (*payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND tax_year = ? AND period_number = ? AND frequency = ?",
			tenantID, employeeID, period.TaxYear, period.Number, period.Frequency).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByRun finds all records belonging to a pay run
func (r *GormRecordRepository) FindByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]payroll.PayrollRecord, error) {
	var records []payroll.PayrollRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND pay_run_id = ?", tenantID, runID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByEmployee finds an employee's payroll history
func (r *GormRecordRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]payroll.PayrollRecord, error) {
	var records []payroll.PayrollRecord
	query := r.db.WithContext(ctx).Model(&payroll.PayrollRecord{}).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID)
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "tax_year":
			query = query.Where("tax_year = ?", value)
		}
	}
	query = applyPagination(query, filter, "tax_year DESC, period_number DESC")
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a payroll record
func (r *GormRecordRepository) Save(ctx context.Context, rec *payroll.PayrollRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// SaveBatch creates or updates multiple payroll records
func (r *GormRecordRepository) SaveBatch(ctx context.Context, recs []*payroll.PayrollRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(recs).Error
}

// DeleteDraftsByRun removes a draft run's records before recalculation
func (r *GormRecordRepository) DeleteDraftsByRun(ctx context.Context, tenantID, runID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND pay_run_id = ? AND status = ?",
			tenantID, runID, payroll.RecordStatusDraft).
		Delete(&payroll.PayrollRecord{}).Error
}

// Ensure GormRecordRepository implements RecordRepository
var _ payroll.RecordRepository = (*GormRecordRepository)(nil)
