package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/hr"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var e hr.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByNumber finds an employee by employee number within a tenant
func (r *GormEmployeeRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*hr.Employee, error) {
	var e hr.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_number = ?", tenantID, strings.TrimSpace(number)).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAllForTenant finds all employees for a tenant
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var employees []hr.Employee
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&hr.Employee{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// FindActiveForTenant finds all active employees, the pay run population
func (r *GormEmployeeRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]hr.Employee, error) {
	var employees []hr.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, hr.EmployeeStatusActive).
		Order("employee_number ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// CountForTenant counts employees for a tenant
func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&hr.Employee{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber reports whether an employee number is taken within a tenant
func (r *GormEmployeeRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&hr.Employee{}).
		Where("tenant_id = ? AND employee_number = ?", tenantID, strings.TrimSpace(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// SaveWithLock saves an employee with optimistic locking (version check)
func (r *GormEmployeeRepository) SaveWithLock(ctx context.Context, e *hr.Employee) error {
	result := r.db.WithContext(ctx).
		Model(e).
		Where("id = ? AND version = ?", e.ID, e.Version-1).
		Updates(e)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The employee record has been modified by another transaction")
	}
	return nil
}

// SaveWithRegistrations persists the employee and registrations in one
// transaction
func (r *GormEmployeeRepository) SaveWithRegistrations(ctx context.Context, e *hr.Employee, regs []*hr.ProfessionalRegistration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		if len(regs) == 0 {
			return nil
		}
		return tx.Save(regs).Error
	})
}

// DeleteForTenant deletes an employee within a tenant
func (r *GormEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND employee_id = ?", tenantID, id).
			Delete(&hr.ProfessionalRegistration{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&hr.Employee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "employee_number ASC")
}

func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR employee_number ILIKE ? OR job_title ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "job_title":
			query = query.Where("job_title = ?", value)
		case "care_home_id":
			query = query.Where("care_home_id = ?", value)
		}
	}
	return query
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)
