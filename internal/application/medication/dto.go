package medication

import (
	"time"

	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/medication"
)

// CreatePrescriptionInput contains the input for recording a prescription
type CreatePrescriptionInput struct {
	TenantID       uuid.UUID
	ResidentID     uuid.UUID
	MedicationName string
	Dose           string
	Route          string
	Frequency      string
	Prescriber     string
	StartDate      time.Time
	EndDate        *time.Time
	MaxDailyDoses  int
}

// DiscontinueInput contains the input for stopping a prescription
type DiscontinueInput struct {
	TenantID       uuid.UUID
	PrescriptionID uuid.UUID
	DiscontinuedBy uuid.UUID
	Note           string
}

// GenerateScheduleInput contains the input for schedule generation
type GenerateScheduleInput struct {
	TenantID       uuid.UUID
	PrescriptionID uuid.UUID
	From           time.Time
	To             time.Time
}

// RecordAdministrationInput contains the input for a MAR chart entry
type RecordAdministrationInput struct {
	TenantID       uuid.UUID
	SlotID         uuid.UUID
	AdministeredBy uuid.UUID
	Outcome        string
	Note           string
	AdministeredAt time.Time
}

// RecordPRNInput contains the input for an on-demand dose
type RecordPRNInput struct {
	TenantID       uuid.UUID
	PrescriptionID uuid.UUID
	AdministeredBy uuid.UUID
	Note           string
	AdministeredAt time.Time
}

// MARRow pairs a slot with its administration record, if any
type MARRow struct {
	Slot   medication.ScheduleSlot
	Record *medication.AdministrationRecord
}
