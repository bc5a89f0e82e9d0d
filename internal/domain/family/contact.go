package family

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// AccessLevel says how much of the resident's record a contact can see
type AccessLevel string

const (
	AccessFull        AccessLevel = "full"         // care plans, documents, updates
	AccessUpdatesOnly AccessLevel = "updates_only" // published updates only
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FamilyContact is a relative or representative with portal access to one
// resident's record.
type FamilyContact struct {
	shared.TenantAggregateRoot
	ResidentID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name         string      `gorm:"type:varchar(200);not null"`
	Relationship string      `gorm:"type:varchar(50);not null"`
	Email        string      `gorm:"type:varchar(255);not null"`
	Phone        string      `gorm:"type:varchar(20)"`
	AccessLevel  AccessLevel `gorm:"type:varchar(20);not null;default:'updates_only'"`
	Active       bool        `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FamilyContact) TableName() string {
	return "family_contacts"
}

// NewFamilyContact creates an active portal contact for a resident
func NewFamilyContact(tenantID, residentID uuid.UUID, name, relationship, email string, level AccessLevel) (*FamilyContact, error) {
	if name = strings.TrimSpace(name); name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name must be 1-200 characters")
	}
	if relationship = strings.TrimSpace(relationship); relationship == "" {
		return nil, shared.NewDomainError("INVALID_RELATIONSHIP", "Relationship is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	switch level {
	case AccessFull, AccessUpdatesOnly:
	default:
		return nil, shared.NewDomainError("INVALID_ACCESS_LEVEL", "Unknown access level")
	}

	return &FamilyContact{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ResidentID:          residentID,
		Name:                name,
		Relationship:        relationship,
		Email:               email,
		AccessLevel:         level,
		Active:              true,
	}, nil
}

// SetPhone validates and sets a UK contact number
func (c *FamilyContact) SetPhone(phone string) error {
	if phone != "" && !shared.ValidUKPhone(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone is not a valid UK number")
	}
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetAccessLevel changes what the contact can see
func (c *FamilyContact) SetAccessLevel(level AccessLevel) error {
	switch level {
	case AccessFull, AccessUpdatesOnly:
	default:
		return shared.NewDomainError("INVALID_ACCESS_LEVEL", "Unknown access level")
	}
	c.AccessLevel = level
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Deactivate revokes portal access
func (c *FamilyContact) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CanView reports whether the contact may see content at the given level.
// Full access includes updates-only content.
func (c *FamilyContact) CanView(level AccessLevel) bool {
	if !c.Active {
		return false
	}
	if c.AccessLevel == AccessFull {
		return true
	}
	return level == AccessUpdatesOnly
}
