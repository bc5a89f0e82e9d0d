package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/family"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByIDForTenant finds a family contact by ID within a tenant
func (r *GormContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*family.FamilyContact, error) {
	var contact family.FamilyContact
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindByEmail finds a family contact by email within a tenant
func (r *GormContactRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*family.FamilyContact, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var contact family.FamilyContact
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(email)).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindByResident finds a resident's family contacts
func (r *GormContactRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]family.FamilyContact, error) {
	var contacts []family.FamilyContact
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resident_id = ?", tenantID, residentID).
		Order("name ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Save creates or updates a family contact
func (r *GormContactRepository) Save(ctx context.Context, c *family.FamilyContact) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteForTenant deletes a family contact within a tenant
func (r *GormContactRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&family.FamilyContact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormContactRepository implements ContactRepository
var _ family.ContactRepository = (*GormContactRepository)(nil)

// GormUpdateRepository implements UpdateRepository using GORM
type GormUpdateRepository struct {
	db *gorm.DB
}

// NewGormUpdateRepository creates a new GormUpdateRepository
func NewGormUpdateRepository(db *gorm.DB) *GormUpdateRepository {
	return &GormUpdateRepository{db: db}
}

// FindByIDForTenant finds a portal update by ID within a tenant
func (r *GormUpdateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*family.PortalUpdate, error) {
	var update family.PortalUpdate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&update).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &update, nil
}

// FindByResident finds updates published about a resident, newest first
func (r *GormUpdateRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]family.PortalUpdate, error) {
	var updates []family.PortalUpdate
	query := r.db.WithContext(ctx).Model(&family.PortalUpdate{}).
		Where("tenant_id = ? AND resident_id = ?", tenantID, residentID)
	if visibility, ok := filter.Filters["visibility"]; ok {
		query = query.Where("visibility = ?", visibility)
	}
	query = applyPagination(query, filter, "published_at DESC")
	if err := query.Find(&updates).Error; err != nil {
		return nil, err
	}
	return updates, nil
}

// Save creates or updates a portal update
func (r *GormUpdateRepository) Save(ctx context.Context, u *family.PortalUpdate) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// SaveWithLock saves a portal update with optimistic locking (version check)
func (r *GormUpdateRepository) SaveWithLock(ctx context.Context, u *family.PortalUpdate) error {
	result := r.db.WithContext(ctx).
		Model(u).
		Where("id = ? AND version = ?", u.ID, u.Version-1).
		Updates(u)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The update has been modified by another transaction")
	}
	return nil
}

// Ensure GormUpdateRepository implements UpdateRepository
var _ family.UpdateRepository = (*GormUpdateRepository)(nil)
