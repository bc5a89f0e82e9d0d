package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/medication"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// MedicationService handles prescriptions, schedule generation and MAR
// recording.
type MedicationService struct {
	prescriptionRepo   medication.PrescriptionRepository
	scheduleRepo       medication.ScheduleRepository
	administrationRepo medication.AdministrationRepository
	residentRepo       resident.ResidentRepository
	logger             *zap.Logger
}

// NewMedicationService creates a new medication service
func NewMedicationService(
	prescriptionRepo medication.PrescriptionRepository,
	scheduleRepo medication.ScheduleRepository,
	administrationRepo medication.AdministrationRepository,
	residentRepo resident.ResidentRepository,
	logger *zap.Logger,
) *MedicationService {
	return &MedicationService{
		prescriptionRepo:   prescriptionRepo,
		scheduleRepo:       scheduleRepo,
		administrationRepo: administrationRepo,
		residentRepo:       residentRepo,
		logger:             logger,
	}
}

// CreatePrescription records a prescription for an admitted resident
func (s *MedicationService) CreatePrescription(ctx context.Context, input CreatePrescriptionInput) (*medication.Prescription, error) {
	r, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID)
	if err != nil {
		return nil, err
	}
	if !r.IsResident() {
		return nil, shared.NewDomainError("NOT_ADMITTED", "Prescriptions can only be recorded for admitted residents")
	}

	p, err := medication.NewPrescription(
		input.TenantID, input.ResidentID,
		input.MedicationName, input.Dose,
		medication.Route(input.Route), medication.Frequency(input.Frequency),
		input.StartDate, input.EndDate, input.MaxDailyDoses,
	)
	if err != nil {
		return nil, err
	}
	p.Prescriber = input.Prescriber

	if err := s.prescriptionRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Prescription recorded",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", input.ResidentID.String()),
		zap.String("prescription_id", p.ID.String()),
		zap.String("frequency", string(p.Frequency)))
	return p, nil
}

// GetPrescription retrieves a prescription within a tenant
func (s *MedicationService) GetPrescription(ctx context.Context, tenantID, id uuid.UUID) (*medication.Prescription, error) {
	return s.prescriptionRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListPrescriptions lists a resident's prescriptions
func (s *MedicationService) ListPrescriptions(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]medication.Prescription, error) {
	return s.prescriptionRepo.FindByResident(ctx, tenantID, residentID, filter)
}

// Discontinue stops a prescription with a reason
func (s *MedicationService) Discontinue(ctx context.Context, input DiscontinueInput) error {
	p, err := s.prescriptionRepo.FindByIDForTenant(ctx, input.TenantID, input.PrescriptionID)
	if err != nil {
		return err
	}
	if err := p.Discontinue(input.DiscontinuedBy, input.Note); err != nil {
		return err
	}
	if err := s.prescriptionRepo.SaveWithLock(ctx, p); err != nil {
		return err
	}
	s.logger.Info("Prescription discontinued",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("prescription_id", p.ID.String()))
	return nil
}

// GenerateSchedule expands a prescription into administration slots over a
// date range. Slots already generated for a time are skipped, so re-running
// over an overlapping range is safe.
func (s *MedicationService) GenerateSchedule(ctx context.Context, input GenerateScheduleInput) ([]*medication.ScheduleSlot, error) {
	p, err := s.prescriptionRepo.FindByIDForTenant(ctx, input.TenantID, input.PrescriptionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.scheduleRepo.ExistingSlotTimes(ctx, input.TenantID, p.ID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	slots, err := medication.GenerateSlots(p, input.From, input.To, existing)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	if err := s.scheduleRepo.SaveSlots(ctx, slots); err != nil {
		return nil, err
	}

	s.logger.Info("Schedule generated",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("prescription_id", p.ID.String()),
		zap.Int("slots", len(slots)))
	return slots, nil
}

// RecordAdministration records the outcome of a scheduled slot
func (s *MedicationService) RecordAdministration(ctx context.Context, input RecordAdministrationInput) (*medication.AdministrationRecord, error) {
	slot, err := s.scheduleRepo.FindSlot(ctx, input.TenantID, input.SlotID)
	if err != nil {
		return nil, err
	}
	p, err := s.prescriptionRepo.FindByIDForTenant(ctx, input.TenantID, slot.PrescriptionID)
	if err != nil {
		return nil, err
	}

	rec, err := medication.NewAdministrationRecord(
		p, slot, input.AdministeredBy,
		medication.AdministrationOutcome(input.Outcome),
		input.Note, input.AdministeredAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.SaveSlot(ctx, slot); err != nil {
		return nil, err
	}
	if err := s.administrationRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Administration recorded",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("slot_id", slot.ID.String()),
		zap.String("outcome", string(rec.Outcome)))
	return rec, nil
}

// RecordPRN records an on-demand dose against the prescriber's daily maximum
func (s *MedicationService) RecordPRN(ctx context.Context, input RecordPRNInput) (*medication.AdministrationRecord, error) {
	p, err := s.prescriptionRepo.FindByIDForTenant(ctx, input.TenantID, input.PrescriptionID)
	if err != nil {
		return nil, err
	}

	givenToday, err := s.administrationRepo.CountPRNGivenOn(ctx, input.TenantID, p.ID, input.AdministeredAt)
	if err != nil {
		return nil, err
	}

	rec, err := medication.NewPRNAdministration(p, input.AdministeredBy, input.Note, input.AdministeredAt, givenToday)
	if err != nil {
		return nil, err
	}
	if err := s.administrationRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("PRN dose recorded",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("prescription_id", p.ID.String()),
		zap.Int("given_today", givenToday+1))
	return rec, nil
}

// MARChart returns a resident's slots over a range joined with their
// administration records.
func (s *MedicationService) MARChart(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]MARRow, error) {
	slots, err := s.scheduleRepo.FindSlotsByResident(ctx, tenantID, residentID, from, to)
	if err != nil {
		return nil, err
	}
	records, err := s.administrationRepo.FindByResident(ctx, tenantID, residentID, from, to)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[uuid.UUID]*medication.AdministrationRecord, len(records))
	for i := range records {
		if records[i].SlotID != nil {
			bySlot[*records[i].SlotID] = &records[i]
		}
	}

	rows := make([]MARRow, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, MARRow{Slot: slot, Record: bySlot[slot.ID]})
	}
	return rows, nil
}
