package medication

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Frequency is a dosing frequency code following UK prescribing shorthand
type Frequency string

const (
	FrequencyOD     Frequency = "OD"     // once daily
	FrequencyBD     Frequency = "BD"     // twice daily
	FrequencyTDS    Frequency = "TDS"    // three times daily
	FrequencyQDS    Frequency = "QDS"    // four times daily
	FrequencyON     Frequency = "ON"     // at night
	FrequencyWeekly Frequency = "WEEKLY" // once a week
	FrequencyPRN    Frequency = "PRN"    // as required, not scheduled
)

// Route is the route of administration
type Route string

const (
	RouteOral        Route = "oral"
	RouteTopical     Route = "topical"
	RouteInjection   Route = "injection"
	RouteInhaled     Route = "inhaled"
	RouteSublingual  Route = "sublingual"
	RoutePerRectum   Route = "pr"
	RouteTransdermal Route = "transdermal"
)

// PrescriptionStatus represents the prescription lifecycle
type PrescriptionStatus string

const (
	PrescriptionStatusActive       PrescriptionStatus = "active"
	PrescriptionStatusDiscontinued PrescriptionStatus = "discontinued"
	PrescriptionStatusExpired      PrescriptionStatus = "expired"
)

// Prescription is a prescriber's instruction for one resident and one
// medication. Scheduled frequencies expand into administration slots; PRN
// prescriptions are administered on demand against a daily maximum.
type Prescription struct {
	shared.TenantAggregateRoot
	ResidentID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	MedicationName  string             `gorm:"type:varchar(200);not null"`
	Dose            string             `gorm:"type:varchar(100);not null"`
	Route           Route              `gorm:"type:varchar(20);not null"`
	Frequency       Frequency          `gorm:"type:varchar(10);not null"`
	PRN             bool               `gorm:"not null;default:false"`
	MaxDailyDoses   int                `gorm:"not null;default:0"`
	Prescriber      string             `gorm:"type:varchar(200)"`
	StartDate       time.Time          `gorm:"type:date;not null"`
	EndDate         *time.Time         `gorm:"type:date"`
	Status          PrescriptionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	DiscontinuedBy  *uuid.UUID         `gorm:"type:uuid"`
	DiscontinueNote string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Prescription) TableName() string {
	return "prescriptions"
}

// NewPrescription creates an active prescription
func NewPrescription(tenantID, residentID uuid.UUID, name, dose string, route Route, freq Frequency, start time.Time, end *time.Time, maxDailyDoses int) (*Prescription, error) {
	if name = strings.TrimSpace(name); name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_MEDICATION_NAME", "Medication name must be 1-200 characters")
	}
	if dose = strings.TrimSpace(dose); dose == "" {
		return nil, shared.NewDomainError("INVALID_DOSE", "Dose is required")
	}
	if err := validateRoute(route); err != nil {
		return nil, err
	}
	if err := validateFrequency(freq); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}
	if end != nil && !end.After(start) {
		return nil, shared.NewDomainError("INVALID_END_DATE", "End date must be after the start date")
	}

	prn := freq == FrequencyPRN
	if prn && maxDailyDoses < 1 {
		return nil, shared.NewDomainError("INVALID_MAX_DOSES", "PRN prescriptions require a maximum daily dose count")
	}
	if !prn {
		maxDailyDoses = 0
	}

	return &Prescription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ResidentID:          residentID,
		MedicationName:      name,
		Dose:                dose,
		Route:               route,
		Frequency:           freq,
		PRN:                 prn,
		MaxDailyDoses:       maxDailyDoses,
		StartDate:           start,
		EndDate:             end,
		Status:              PrescriptionStatusActive,
	}, nil
}

func validateRoute(route Route) error {
	switch route {
	case RouteOral, RouteTopical, RouteInjection, RouteInhaled, RouteSublingual, RoutePerRectum, RouteTransdermal:
		return nil
	}
	return shared.NewDomainError("INVALID_ROUTE", "Unknown administration route")
}

func validateFrequency(freq Frequency) error {
	switch freq {
	case FrequencyOD, FrequencyBD, FrequencyTDS, FrequencyQDS, FrequencyON, FrequencyWeekly, FrequencyPRN:
		return nil
	}
	return shared.NewDomainError("INVALID_FREQUENCY", "Unknown frequency code")
}

// DosesPerDay returns how many scheduled administrations fall on a dosing day
func (p *Prescription) DosesPerDay() int {
	switch p.Frequency {
	case FrequencyOD, FrequencyON, FrequencyWeekly:
		return 1
	case FrequencyBD:
		return 2
	case FrequencyTDS:
		return 3
	case FrequencyQDS:
		return 4
	default:
		return 0
	}
}

// ActiveOn reports whether the prescription covers the given date
func (p *Prescription) ActiveOn(date time.Time) bool {
	if p.Status != PrescriptionStatusActive {
		return false
	}
	day := date.Truncate(24 * time.Hour)
	if day.Before(p.StartDate.Truncate(24 * time.Hour)) {
		return false
	}
	if p.EndDate != nil && day.After(p.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// Discontinue stops the prescription with a reason
func (p *Prescription) Discontinue(by uuid.UUID, note string) error {
	if p.Status != PrescriptionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active prescription can be discontinued")
	}
	p.Status = PrescriptionStatusDiscontinued
	p.DiscontinuedBy = &by
	p.DiscontinueNote = note
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkExpired closes a prescription whose end date has passed
func (p *Prescription) MarkExpired(now time.Time) error {
	if p.Status != PrescriptionStatusActive {
		return shared.ErrInvalidState
	}
	if p.EndDate == nil || now.Before(*p.EndDate) {
		return shared.NewDomainError("NOT_EXPIRED", "Prescription end date has not passed")
	}
	p.Status = PrescriptionStatusExpired
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}
