package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/medication"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormPrescriptionRepository implements PrescriptionRepository using GORM
type GormPrescriptionRepository struct {
	db *gorm.DB
}

// NewGormPrescriptionRepository creates a new GormPrescriptionRepository
func NewGormPrescriptionRepository(db *gorm.DB) *GormPrescriptionRepository {
	return &GormPrescriptionRepository{db: db}
}

// FindByIDForTenant finds a prescription by ID within a tenant
func (r *GormPrescriptionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*medication.Prescription, error) {
	var p medication.Prescription
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByResident finds prescriptions for a resident
func (r *GormPrescriptionRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]medication.Prescription, error) {
	var prescriptions []medication.Prescription
	query := r.db.WithContext(ctx).Model(&medication.Prescription{}).
		Where("tenant_id = ? AND resident_id = ?", tenantID, residentID)
	if filter.Search != "" {
		query = query.Where("medication_name ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = applyPagination(query, filter, "medication_name ASC")
	if err := query.Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// FindActiveByResident finds a resident's active prescriptions
func (r *GormPrescriptionRepository) FindActiveByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]medication.Prescription, error) {
	var prescriptions []medication.Prescription
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resident_id = ? AND status = ?",
			tenantID, residentID, medication.PrescriptionStatusActive).
		Order("medication_name ASC").
		Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// Save creates or updates a prescription
func (r *GormPrescriptionRepository) Save(ctx context.Context, p *medication.Prescription) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveWithLock saves a prescription with optimistic locking (version check)
func (r *GormPrescriptionRepository) SaveWithLock(ctx context.Context, p *medication.Prescription) error {
	result := r.db.WithContext(ctx).
		Model(p).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The prescription has been modified by another transaction")
	}
	return nil
}

// DeleteForTenant deletes a prescription within a tenant
func (r *GormPrescriptionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&medication.Prescription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPrescriptionRepository implements PrescriptionRepository
var _ medication.PrescriptionRepository = (*GormPrescriptionRepository)(nil)
