package compliance

import (
	"time"

	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/compliance"
)

// CreateRequirementInput contains the input for registering a requirement
type CreateRequirementInput struct {
	TenantID     uuid.UUID
	CareHomeID   uuid.UUID
	Name         string
	Category     string
	Regulation   string
	IntervalDays int
}

// RecordCompletionInput contains the input for evidencing a completion
type RecordCompletionInput struct {
	TenantID      uuid.UUID
	RequirementID uuid.UUID
	CompletedBy   uuid.UUID
	CompletedAt   time.Time
	Notes         string
}

// RequirementStanding is a requirement with its derived status
type RequirementStanding struct {
	Requirement compliance.ComplianceRequirement
	Status      compliance.ComplianceStatus
	NextDue     time.Time
}
