package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormCareHomeRepository implements CareHomeRepository using GORM
type GormCareHomeRepository struct {
	db *gorm.DB
}

// NewGormCareHomeRepository creates a new GormCareHomeRepository
func NewGormCareHomeRepository(db *gorm.DB) *GormCareHomeRepository {
	return &GormCareHomeRepository{db: db}
}

// FindByIDForTenant finds a care home by ID within a tenant
func (r *GormCareHomeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.CareHome, error) {
	var home identity.CareHome
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&home).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &home, nil
}

// FindAllForTenant finds all care homes for a tenant
func (r *GormCareHomeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.CareHome, error) {
	var homes []identity.CareHome
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&identity.CareHome{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&homes).Error; err != nil {
		return nil, err
	}
	return homes, nil
}

// CountForTenant counts care homes for a tenant
func (r *GormCareHomeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&identity.CareHome{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a care home
func (r *GormCareHomeRepository) Save(ctx context.Context, home *identity.CareHome) error {
	return r.db.WithContext(ctx).Save(home).Error
}

// DeleteForTenant deletes a care home within a tenant
func (r *GormCareHomeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&identity.CareHome{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCareHomeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "name ASC")
}

func (r *GormCareHomeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR city ILIKE ? OR postcode ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		}
	}
	return query
}

// Ensure GormCareHomeRepository implements CareHomeRepository
var _ identity.CareHomeRepository = (*GormCareHomeRepository)(nil)
