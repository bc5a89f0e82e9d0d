package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormResidentRepository implements ResidentRepository using GORM
type GormResidentRepository struct {
	db *gorm.DB
}

// NewGormResidentRepository creates a new GormResidentRepository
func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// FindByIDForTenant finds a resident by ID within a tenant
func (r *GormResidentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*resident.Resident, error) {
	var res resident.Resident
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindByNHSNumber finds a resident by NHS number within a tenant
func (r *GormResidentRepository) FindByNHSNumber(ctx context.Context, tenantID uuid.UUID, nhsNumber string) (*resident.Resident, error) {
	if nhsNumber == "" {
		return nil, shared.NewDomainError("INVALID_NHS_NUMBER", "NHS number cannot be empty")
	}
	var res resident.Resident
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND nhs_number = ?", tenantID, nhsNumber).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindAllForTenant finds all residents for a tenant
func (r *GormResidentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]resident.Resident, error) {
	var residents []resident.Resident
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&resident.Resident{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// FindByStatus finds residents by status for a tenant
func (r *GormResidentRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status resident.ResidentStatus, filter shared.Filter) ([]resident.Resident, error) {
	var residents []resident.Resident
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&resident.Resident{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// CountForTenant counts residents for a tenant
func (r *GormResidentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&resident.Resident{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNHSNumber reports whether a resident with the NHS number exists
func (r *GormResidentRepository) ExistsByNHSNumber(ctx context.Context, tenantID uuid.UUID, nhsNumber string) (bool, error) {
	if nhsNumber == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&resident.Resident{}).
		Where("tenant_id = ? AND nhs_number = ?", tenantID, nhsNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RoomOccupied reports whether an admitted resident already holds the room
func (r *GormResidentRepository) RoomOccupied(ctx context.Context, tenantID, careHomeID uuid.UUID, room string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&resident.Resident{}).
		Where("tenant_id = ? AND care_home_id = ? AND room = ? AND status = ?",
			tenantID, careHomeID, room, resident.ResidentStatusAdmitted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a resident
func (r *GormResidentRepository) Save(ctx context.Context, res *resident.Resident) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// SaveWithLock saves a resident with optimistic locking (version check)
func (r *GormResidentRepository) SaveWithLock(ctx context.Context, res *resident.Resident) error {
	result := r.db.WithContext(ctx).
		Model(res).
		Where("id = ? AND version = ?", res.ID, res.Version-1).
		Updates(res)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The resident record has been modified by another transaction")
	}
	return nil
}

// SaveBatch creates or updates multiple residents
func (r *GormResidentRepository) SaveBatch(ctx context.Context, residents []*resident.Resident) error {
	if len(residents) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(residents).Error
}

// DeleteForTenant deletes a resident within a tenant
func (r *GormResidentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&resident.Resident{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormResidentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "last_name ASC, first_name ASC")
}

func (r *GormResidentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR nhs_number ILIKE ? OR room ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "care_level":
			query = query.Where("care_level = ?", value)
		case "care_home_id":
			query = query.Where("care_home_id = ?", value)
		}
	}
	return query
}

// Ensure GormResidentRepository implements ResidentRepository
var _ resident.ResidentRepository = (*GormResidentRepository)(nil)
