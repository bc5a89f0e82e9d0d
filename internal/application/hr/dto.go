package hr

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/writecarenotes/backend/internal/domain/hr"
)

// RegistrationInput is one professional registration supplied at hire
type RegistrationInput struct {
	Type      string
	Reference string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HireEmployeeInput contains the input for hiring an employee
type HireEmployeeInput struct {
	TenantID       uuid.UUID
	CareHomeID     uuid.UUID
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	JobTitle       string
	NINumber       string
	TaxCode        string
	NICategory     string
	Contract       hr.Contract
	Registrations  []RegistrationInput
}

// SetTaxDetailsInput contains the input for updating HMRC coding
type SetTaxDetailsInput struct {
	TenantID    uuid.UUID
	EmployeeID  uuid.UUID
	TaxCode     string
	NICategory  string
	StudentLoan string
}

// SetPensionInput contains the input for auto-enrolment choices
type SetPensionInput struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	OptOut     bool
	Rate       decimal.Decimal
}

// RecordLeavingInput contains the input for ending an employment
type RecordLeavingInput struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	LeavingOn  time.Time
}

// RenewRegistrationInput contains the input for a registration renewal
type RenewRegistrationInput struct {
	TenantID       uuid.UUID
	RegistrationID uuid.UUID
	ExpiresAt      time.Time
}

// ExpiringRegistration pairs a registration with its derived standing
type ExpiringRegistration struct {
	Registration hr.ProfessionalRegistration
	Standing     hr.RegistrationStanding
}
