package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/hr"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormRegistrationRepository implements RegistrationRepository using GORM
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewGormRegistrationRepository creates a new GormRegistrationRepository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// FindByIDForTenant finds a registration by ID within a tenant
func (r *GormRegistrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.ProfessionalRegistration, error) {
	var reg hr.ProfessionalRegistration
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// FindByEmployee finds all registrations held by an employee
func (r *GormRegistrationRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.ProfessionalRegistration, error) {
	var regs []hr.ProfessionalRegistration
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Order("expires_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// FindExpiringBefore finds registrations expiring before the cutoff
func (r *GormRegistrationRepository) FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]hr.ProfessionalRegistration, error) {
	var regs []hr.ProfessionalRegistration
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND expires_at < ?", tenantID, before).
		Order("expires_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// Save creates or updates a registration
func (r *GormRegistrationRepository) Save(ctx context.Context, reg *hr.ProfessionalRegistration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

// DeleteForTenant deletes a registration within a tenant
func (r *GormRegistrationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&hr.ProfessionalRegistration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRegistrationRepository implements RegistrationRepository
var _ hr.RegistrationRepository = (*GormRegistrationRepository)(nil)
