package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormCarePlanRepository implements CarePlanRepository using GORM
type GormCarePlanRepository struct {
	db *gorm.DB
}

// NewGormCarePlanRepository creates a new GormCarePlanRepository
func NewGormCarePlanRepository(db *gorm.DB) *GormCarePlanRepository {
	return &GormCarePlanRepository{db: db}
}

// FindByIDForTenant finds a care plan by ID within a tenant
func (r *GormCarePlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*resident.CarePlan, error) {
	var plan resident.CarePlan
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindByResident finds care plans for a resident
func (r *GormCarePlanRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]resident.CarePlan, error) {
	var plans []resident.CarePlan
	query := r.db.WithContext(ctx).Model(&resident.CarePlan{}).
		Where("tenant_id = ? AND resident_id = ?", tenantID, residentID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = applyPagination(query, filter, "created_at DESC")
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindActiveDueForReview finds active plans whose next review date has passed
// or is inside the warning window.
func (r *GormCarePlanRepository) FindActiveDueForReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]resident.CarePlan, error) {
	var plans []resident.CarePlan
	cutoff := time.Now().Add(14 * 24 * time.Hour)
	query := r.db.WithContext(ctx).Model(&resident.CarePlan{}).
		Where("tenant_id = ? AND status = ? AND next_review_at IS NOT NULL AND next_review_at <= ?",
			tenantID, resident.CarePlanStatusActive, cutoff)
	query = applyPagination(query, filter, "next_review_at ASC")
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Save creates or updates a care plan
func (r *GormCarePlanRepository) Save(ctx context.Context, plan *resident.CarePlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// DeleteForTenant deletes a care plan within a tenant
func (r *GormCarePlanRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&resident.CarePlan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCarePlanRepository implements CarePlanRepository
var _ resident.CarePlanRepository = (*GormCarePlanRepository)(nil)
