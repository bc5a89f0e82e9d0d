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

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindSlot finds a schedule slot by ID within a tenant
func (r *GormScheduleRepository) FindSlot(ctx context.Context, tenantID, id uuid.UUID) (*medication.ScheduleSlot, error) {
	var slot medication.ScheduleSlot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// FindSlotsByPrescription finds slots for a prescription inside a window
func (r *GormScheduleRepository) FindSlotsByPrescription(ctx context.Context, tenantID, prescriptionID uuid.UUID, from, to time.Time) ([]medication.ScheduleSlot, error) {
	var slots []medication.ScheduleSlot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND prescription_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			tenantID, prescriptionID, from, to).
		Order("scheduled_at ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// FindSlotsByResident finds a resident's slots inside a window, the MAR chart view
func (r *GormScheduleRepository) FindSlotsByResident(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]medication.ScheduleSlot, error) {
	var slots []medication.ScheduleSlot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resident_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			tenantID, residentID, from, to).
		Order("scheduled_at ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// ExistingSlotTimes returns the scheduled times already generated for a
// prescription inside a window
func (r *GormScheduleRepository) ExistingSlotTimes(ctx context.Context, tenantID, prescriptionID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.db.WithContext(ctx).
		Model(&medication.ScheduleSlot{}).
		Where("tenant_id = ? AND prescription_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			tenantID, prescriptionID, from, to).
		Order("scheduled_at ASC").
		Pluck("scheduled_at", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// SaveSlots persists a batch of generated slots
func (r *GormScheduleRepository) SaveSlots(ctx context.Context, slots []*medication.ScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(slots).Error
}

// SaveSlot persists one slot
func (r *GormScheduleRepository) SaveSlot(ctx context.Context, slot *medication.ScheduleSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

// Ensure GormScheduleRepository implements ScheduleRepository
var _ medication.ScheduleRepository = (*GormScheduleRepository)(nil)
