package medication

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// AdministrationOutcome is the recorded result of a medication round entry
type AdministrationOutcome string

const (
	OutcomeGiven   AdministrationOutcome = "given"
	OutcomeRefused AdministrationOutcome = "refused"
	OutcomeOmitted AdministrationOutcome = "omitted"
)

// AdministrationRecord is one MAR chart entry. Scheduled administrations
// reference their slot; PRN administrations have no slot.
type AdministrationRecord struct {
	shared.TenantAggregateRoot
	PrescriptionID uuid.UUID             `gorm:"type:uuid;not null;index"`
	ResidentID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	SlotID         *uuid.UUID            `gorm:"type:uuid;index"`
	Outcome        AdministrationOutcome `gorm:"type:varchar(10);not null"`
	Note           string                `gorm:"type:text"`
	AdministeredBy uuid.UUID             `gorm:"type:uuid;not null"`
	AdministeredAt time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdministrationRecord) TableName() string {
	return "administration_records"
}

// NewAdministrationRecord records the outcome of a scheduled slot
func NewAdministrationRecord(p *Prescription, slot *ScheduleSlot, by uuid.UUID, outcome AdministrationOutcome, note string, at time.Time) (*AdministrationRecord, error) {
	if err := validateOutcome(outcome, note); err != nil {
		return nil, err
	}
	if slot.PrescriptionID != p.ID {
		return nil, shared.NewDomainError("SLOT_MISMATCH", "Slot does not belong to this prescription")
	}
	if slot.Completed {
		return nil, shared.NewDomainError("SLOT_COMPLETED", "Slot has already been recorded")
	}
	slot.Completed = true

	rec := &AdministrationRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		PrescriptionID:      p.ID,
		ResidentID:          p.ResidentID,
		SlotID:              &slot.ID,
		Outcome:             outcome,
		Note:                note,
		AdministeredBy:      by,
		AdministeredAt:      at,
	}
	return rec, nil
}

// NewPRNAdministration records an on-demand dose. givenToday is the count of
// doses already given in the same calendar day and enforces the prescriber's
// daily maximum.
func NewPRNAdministration(p *Prescription, by uuid.UUID, note string, at time.Time, givenToday int) (*AdministrationRecord, error) {
	if !p.PRN {
		return nil, shared.NewDomainError("NOT_PRN", "Prescription is not PRN; record against its schedule")
	}
	if !p.ActiveOn(at) {
		return nil, shared.NewDomainError("PRESCRIPTION_INACTIVE", "Prescription is not active on that date")
	}
	if givenToday >= p.MaxDailyDoses {
		return nil, shared.NewDomainError("MAX_DOSES_REACHED", "Maximum daily PRN doses already given")
	}

	return &AdministrationRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		PrescriptionID:      p.ID,
		ResidentID:          p.ResidentID,
		Outcome:             OutcomeGiven,
		Note:                note,
		AdministeredBy:      by,
		AdministeredAt:      at,
	}, nil
}

func validateOutcome(outcome AdministrationOutcome, note string) error {
	switch outcome {
	case OutcomeGiven:
		return nil
	case OutcomeRefused, OutcomeOmitted:
		if strings.TrimSpace(note) == "" {
			return shared.NewDomainError("NOTE_REQUIRED", "Refused and omitted outcomes require a note")
		}
		return nil
	}
	return shared.NewDomainError("INVALID_OUTCOME", "Unknown administration outcome")
}
