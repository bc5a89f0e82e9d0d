package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/medication"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormAdministrationRepository implements AdministrationRepository using GORM
type GormAdministrationRepository struct {
	db *gorm.DB
}

// NewGormAdministrationRepository creates a new GormAdministrationRepository
func NewGormAdministrationRepository(db *gorm.DB) *GormAdministrationRepository {
	return &GormAdministrationRepository{db: db}
}

// FindByIDForTenant finds an administration record by ID within a tenant
func (r *GormAdministrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*medication.AdministrationRecord, error) {
	var rec medication.AdministrationRecord
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

// FindByResident finds a resident's administration records inside a window
func (r *GormAdministrationRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]medication.AdministrationRecord, error) {
	var records []medication.AdministrationRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resident_id = ? AND administered_at >= ? AND administered_at < ?",
			tenantID, residentID, from, to).
		Order("administered_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountPRNGivenOn counts PRN doses given for a prescription on a calendar day
func (r *GormAdministrationRepository) CountPRNGivenOn(ctx context.Context, tenantID, prescriptionID uuid.UUID, day time.Time) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&medication.AdministrationRecord{}).
		Where("tenant_id = ? AND prescription_id = ? AND outcome = ? AND administered_at >= ? AND administered_at < ?",
			tenantID, prescriptionID, medication.OutcomeGiven, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// Save persists an administration record
func (r *GormAdministrationRepository) Save(ctx context.Context, rec *medication.AdministrationRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Ensure GormAdministrationRepository implements AdministrationRepository
var _ medication.AdministrationRepository = (*GormAdministrationRepository)(nil)
