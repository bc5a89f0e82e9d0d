package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// CareHomeStatus represents the operational status of a care home
type CareHomeStatus string

const (
	CareHomeStatusOpen   CareHomeStatus = "open"
	CareHomeStatusClosed CareHomeStatus = "closed"
)

// CareHome is a single facility operated by a tenant. Resident and staffing
// records are scoped to a care home; financial records may span homes.
type CareHome struct {
	shared.TenantAggregateRoot
	Name          string         `gorm:"type:varchar(200);not null"`
	CQCProviderID string         `gorm:"type:varchar(20);index"`
	AddressLine1  string         `gorm:"type:varchar(200)"`
	AddressLine2  string         `gorm:"type:varchar(200)"`
	City          string         `gorm:"type:varchar(100)"`
	Postcode      string         `gorm:"type:varchar(10)"`
	BedCount      int            `gorm:"not null;default:0"`
	Status        CareHomeStatus `gorm:"type:varchar(20);not null;default:'open'"`
}

// TableName returns the table name for GORM
func (CareHome) TableName() string {
	return "care_homes"
}

// NewCareHome registers a new care home under a tenant
func NewCareHome(tenantID uuid.UUID, name, cqcProviderID string, bedCount int) (*CareHome, error) {
	if name = strings.TrimSpace(name); name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CARE_HOME_NAME", "Care home name must be 1-200 characters")
	}
	if bedCount < 0 {
		return nil, shared.NewDomainError("INVALID_BED_COUNT", "Bed count cannot be negative")
	}

	return &CareHome{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		CQCProviderID:       strings.ToUpper(strings.TrimSpace(cqcProviderID)),
		BedCount:            bedCount,
		Status:              CareHomeStatusOpen,
	}, nil
}

// SetAddress sets the care home's address
func (h *CareHome) SetAddress(line1, line2, city, postcode string) error {
	if postcode != "" && !shared.ValidUKPostcode(postcode) {
		return shared.NewDomainError("INVALID_POSTCODE", "Postcode is not a valid UK postcode")
	}
	h.AddressLine1 = line1
	h.AddressLine2 = line2
	h.City = city
	h.Postcode = strings.ToUpper(strings.TrimSpace(postcode))
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}

// SetBedCount updates the registered bed count
func (h *CareHome) SetBedCount(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_BED_COUNT", "Bed count cannot be negative")
	}
	h.BedCount = count
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}

// Close marks the care home as closed
func (h *CareHome) Close() error {
	if h.Status == CareHomeStatusClosed {
		return shared.ErrInvalidState
	}
	h.Status = CareHomeStatusClosed
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}
