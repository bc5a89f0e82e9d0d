package hr

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// RegistrationType identifies the professional body or check
type RegistrationType string

const (
	RegistrationNMC RegistrationType = "nmc" // Nursing and Midwifery Council PIN
	RegistrationDBS RegistrationType = "dbs" // Disclosure and Barring Service certificate
)

// expiryWarningDays is how far ahead a registration counts as expiring
const expiryWarningDays = 60

// RegistrationStanding derives where a registration sits against its expiry
type RegistrationStanding string

const (
	RegistrationValid    RegistrationStanding = "valid"
	RegistrationExpiring RegistrationStanding = "expiring"
	RegistrationExpired  RegistrationStanding = "expired"
)

// ProfessionalRegistration tracks a statutory registration or check an
// employee must hold to work.
type ProfessionalRegistration struct {
	shared.TenantAggregateRoot
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type       RegistrationType `gorm:"type:varchar(10);not null"`
	Reference  string           `gorm:"type:varchar(50);not null"`
	IssuedAt   time.Time        `gorm:"type:date;not null"`
	ExpiresAt  time.Time        `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (ProfessionalRegistration) TableName() string {
	return "professional_registrations"
}

// NewRegistration records a professional registration for an employee
func NewRegistration(tenantID, employeeID uuid.UUID, regType RegistrationType, reference string, issuedAt, expiresAt time.Time) (*ProfessionalRegistration, error) {
	switch regType {
	case RegistrationNMC, RegistrationDBS:
	default:
		return nil, shared.NewDomainError("INVALID_REGISTRATION_TYPE", "Unknown registration type")
	}
	if reference = strings.ToUpper(strings.TrimSpace(reference)); reference == "" || len(reference) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Registration reference must be 1-50 characters")
	}
	if issuedAt.IsZero() || expiresAt.IsZero() || !expiresAt.After(issuedAt) {
		return nil, shared.NewDomainError("INVALID_DATES", "Expiry must be after the issue date")
	}

	return &ProfessionalRegistration{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employeeID,
		Type:                regType,
		Reference:           reference,
		IssuedAt:            issuedAt,
		ExpiresAt:           expiresAt,
	}, nil
}

// Renew extends the registration after a revalidation or recheck
func (r *ProfessionalRegistration) Renew(expiresAt time.Time) error {
	if !expiresAt.After(r.ExpiresAt) {
		return shared.NewDomainError("INVALID_RENEWAL", "New expiry must extend the current one")
	}
	r.ExpiresAt = expiresAt
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Standing derives the registration's status at the given instant
func (r *ProfessionalRegistration) Standing(now time.Time) RegistrationStanding {
	switch {
	case now.After(r.ExpiresAt):
		return RegistrationExpired
	case now.AddDate(0, 0, expiryWarningDays).After(r.ExpiresAt):
		return RegistrationExpiring
	default:
		return RegistrationValid
	}
}
