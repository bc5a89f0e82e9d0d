package family

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// PortalUpdate is a care-team update published to a resident's family
// contacts. Visibility indicates the minimum access level needed to see it.
type PortalUpdate struct {
	shared.TenantAggregateRoot
	ResidentID  uuid.UUID   `gorm:"type:uuid;not null;index"`
	AuthorID    uuid.UUID   `gorm:"type:uuid;not null"`
	Title       string      `gorm:"type:varchar(200);not null"`
	Body        string      `gorm:"type:text;not null"`
	Visibility  AccessLevel `gorm:"type:varchar(20);not null;default:'updates_only'"`
	PublishedAt time.Time   `gorm:"not null"`
	AckedBy     []uuid.UUID `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (PortalUpdate) TableName() string {
	return "portal_updates"
}

// NewPortalUpdate publishes an update
func NewPortalUpdate(tenantID, residentID, authorID uuid.UUID, title, body string, visibility AccessLevel) (*PortalUpdate, error) {
	if title = strings.TrimSpace(title); title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Update title must be 1-200 characters")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Update body is required")
	}
	switch visibility {
	case AccessFull, AccessUpdatesOnly:
	default:
		return nil, shared.NewDomainError("INVALID_ACCESS_LEVEL", "Unknown visibility level")
	}

	return &PortalUpdate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ResidentID:          residentID,
		AuthorID:            authorID,
		Title:               title,
		Body:                body,
		Visibility:          visibility,
		PublishedAt:         time.Now(),
	}, nil
}

// VisibleTo reports whether a contact may read the update
func (u *PortalUpdate) VisibleTo(c *FamilyContact) bool {
	if c.ResidentID != u.ResidentID {
		return false
	}
	return c.CanView(u.Visibility)
}

// Acknowledge records that a contact has seen the update. Acknowledging twice
// is a no-op.
func (u *PortalUpdate) Acknowledge(contact *FamilyContact) error {
	if !u.VisibleTo(contact) {
		return shared.ErrForbidden
	}
	for _, id := range u.AckedBy {
		if id == contact.ID {
			return nil
		}
	}
	u.AckedBy = append(u.AckedBy, contact.ID)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// AcknowledgedBy reports whether the contact has acknowledged the update
func (u *PortalUpdate) AcknowledgedBy(contactID uuid.UUID) bool {
	for _, id := range u.AckedBy {
		if id == contactID {
			return true
		}
	}
	return false
}
