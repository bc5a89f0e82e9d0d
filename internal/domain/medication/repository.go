package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// PrescriptionRepository defines the interface for prescription persistence
type PrescriptionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Prescription, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]Prescription, error)
	FindActiveByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]Prescription, error)
	Save(ctx context.Context, p *Prescription) error
	SaveWithLock(ctx context.Context, p *Prescription) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ScheduleRepository defines the interface for schedule slot persistence
type ScheduleRepository interface {
	FindSlot(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleSlot, error)
	FindSlotsByPrescription(ctx context.Context, tenantID, prescriptionID uuid.UUID, from, to time.Time) ([]ScheduleSlot, error)
	FindSlotsByResident(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]ScheduleSlot, error)
	ExistingSlotTimes(ctx context.Context, tenantID, prescriptionID uuid.UUID, from, to time.Time) ([]time.Time, error)
	SaveSlots(ctx context.Context, slots []*ScheduleSlot) error
	SaveSlot(ctx context.Context, slot *ScheduleSlot) error
}

// AdministrationRepository defines the interface for MAR persistence
type AdministrationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AdministrationRecord, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]AdministrationRecord, error)
	CountPRNGivenOn(ctx context.Context, tenantID, prescriptionID uuid.UUID, day time.Time) (int, error)
	Save(ctx context.Context, rec *AdministrationRecord) error
}
