package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/compliance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormRequirementRepository implements RequirementRepository using GORM
type GormRequirementRepository struct {
	db *gorm.DB
}

// NewGormRequirementRepository creates a new GormRequirementRepository
func NewGormRequirementRepository(db *gorm.DB) *GormRequirementRepository {
	return &GormRequirementRepository{db: db}
}

// FindByIDForTenant finds a requirement by ID within a tenant
func (r *GormRequirementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*compliance.ComplianceRequirement, error) {
	var req compliance.ComplianceRequirement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAllForTenant finds all requirements for a tenant
func (r *GormRequirementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]compliance.ComplianceRequirement, error) {
	var reqs []compliance.ComplianceRequirement
	query := r.db.WithContext(ctx).Model(&compliance.ComplianceRequirement{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR regulation ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "care_home_id":
			query = query.Where("care_home_id = ?", value)
		}
	}
	query = applyPagination(query, filter, "name ASC")
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindActiveForTenant finds a tenant's active requirements
func (r *GormRequirementRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]compliance.ComplianceRequirement, error) {
	var reqs []compliance.ComplianceRequirement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("name ASC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindDueBefore finds active requirements whose next due date falls before
// the cutoff. Never-completed requirements are always due.
func (r *GormRequirementRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]compliance.ComplianceRequirement, error) {
	var reqs []compliance.ComplianceRequirement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Where("last_completed_at IS NULL OR last_completed_at + interval_days * INTERVAL '1 day' < ?", before).
		Order("last_completed_at ASC NULLS FIRST").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Save creates or updates a requirement
func (r *GormRequirementRepository) Save(ctx context.Context, req *compliance.ComplianceRequirement) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// SaveWithEvent persists the requirement and completion evidence in one
// transaction, guarding the requirement with a version check
func (r *GormRequirementRepository) SaveWithEvent(ctx context.Context, req *compliance.ComplianceRequirement, ev *compliance.ComplianceEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(req).
			Where("id = ? AND version = ?", req.ID, req.Version-1).
			Updates(req)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The requirement has been modified by another transaction")
		}
		return tx.Create(ev).Error
	})
}

// DeleteForTenant deletes a requirement within a tenant
func (r *GormRequirementRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&compliance.ComplianceRequirement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRequirementRepository implements RequirementRepository
var _ compliance.RequirementRepository = (*GormRequirementRepository)(nil)

// GormComplianceEventRepository implements EventRepository using GORM
type GormComplianceEventRepository struct {
	db *gorm.DB
}

// NewGormComplianceEventRepository creates a new GormComplianceEventRepository
func NewGormComplianceEventRepository(db *gorm.DB) *GormComplianceEventRepository {
	return &GormComplianceEventRepository{db: db}
}

// FindByRequirement finds completion evidence for a requirement, most recent
// first
func (r *GormComplianceEventRepository) FindByRequirement(ctx context.Context, tenantID, requirementID uuid.UUID, filter shared.Filter) ([]compliance.ComplianceEvent, error) {
	var events []compliance.ComplianceEvent
	query := r.db.WithContext(ctx).Model(&compliance.ComplianceEvent{}).
		Where("tenant_id = ? AND requirement_id = ?", tenantID, requirementID)
	query = applyPagination(query, filter, "completed_at DESC")
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Save persists a compliance event
func (r *GormComplianceEventRepository) Save(ctx context.Context, ev *compliance.ComplianceEvent) error {
	return r.db.WithContext(ctx).Save(ev).Error
}

// Ensure GormComplianceEventRepository implements EventRepository
var _ compliance.EventRepository = (*GormComplianceEventRepository)(nil)
