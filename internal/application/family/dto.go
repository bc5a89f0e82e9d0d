package family

import (
	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/family"
)

// AddContactInput contains the input for granting portal access
type AddContactInput struct {
	TenantID     uuid.UUID
	ResidentID   uuid.UUID
	Name         string
	Relationship string
	Email        string
	Phone        string
	AccessLevel  string
}

// PublishUpdateInput contains the input for publishing a care update
type PublishUpdateInput struct {
	TenantID   uuid.UUID
	ResidentID uuid.UUID
	AuthorID   uuid.UUID
	Title      string
	Body       string
	Visibility string
}

// AcknowledgeInput contains the input for acknowledging an update
type AcknowledgeInput struct {
	TenantID  uuid.UUID
	UpdateID  uuid.UUID
	ContactID uuid.UUID
}

// UpdateView is an update together with the contact's acknowledgement state
type UpdateView struct {
	Update       family.PortalUpdate
	Acknowledged bool
}
