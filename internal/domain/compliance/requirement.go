package compliance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// RequirementCategory groups obligations for reporting
type RequirementCategory string

const (
	CategoryCQC      RequirementCategory = "cqc"
	CategoryFire     RequirementCategory = "fire_safety"
	CategoryTraining RequirementCategory = "training"
	CategoryHygiene  RequirementCategory = "hygiene"
	CategoryOther    RequirementCategory = "other"
)

// ComplianceStatus is derived from the last completion date and the review
// interval; it is never stored.
type ComplianceStatus string

const (
	StatusCompliant ComplianceStatus = "compliant"
	StatusDue       ComplianceStatus = "due"
	StatusOverdue   ComplianceStatus = "overdue"
)

// dueWarningDays is how far ahead of the deadline a requirement counts as due
const dueWarningDays = 30

// ComplianceRequirement is a recurring obligation a care home must evidence,
// e.g. a fire risk assessment or CQC regulation 12 audit.
type ComplianceRequirement struct {
	shared.TenantAggregateRoot
	Name            string              `gorm:"type:varchar(200);not null"`
	Category        RequirementCategory `gorm:"type:varchar(20);not null"`
	Regulation      string              `gorm:"type:varchar(50)"`
	IntervalDays    int                 `gorm:"not null"`
	LastCompletedAt *time.Time          `gorm:"type:date"`
	Active          bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ComplianceRequirement) TableName() string {
	return "compliance_requirements"
}

// NewRequirement creates an active requirement with no completions yet
func NewRequirement(tenantID, careHomeID uuid.UUID, name string, category RequirementCategory, regulation string, intervalDays int) (*ComplianceRequirement, error) {
	if name = strings.TrimSpace(name); name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Requirement name must be 1-200 characters")
	}
	switch category {
	case CategoryCQC, CategoryFire, CategoryTraining, CategoryHygiene, CategoryOther:
	default:
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown requirement category")
	}
	if intervalDays < 1 || intervalDays > 1095 {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Review interval must be between 1 and 1095 days")
	}

	return &ComplianceRequirement{
		TenantAggregateRoot: shared.NewCareHomeAggregateRoot(tenantID, careHomeID),
		Name:                name,
		Category:            category,
		Regulation:          regulation,
		IntervalDays:        intervalDays,
		Active:              true,
	}, nil
}

// NextDue returns when the requirement must next be completed. A requirement
// never completed is due immediately.
func (r *ComplianceRequirement) NextDue() time.Time {
	if r.LastCompletedAt == nil {
		return r.CreatedAt
	}
	return r.LastCompletedAt.AddDate(0, 0, r.IntervalDays)
}

// Status derives the requirement's standing at the given instant
func (r *ComplianceRequirement) Status(now time.Time) ComplianceStatus {
	due := r.NextDue()
	switch {
	case now.After(due):
		return StatusOverdue
	case now.AddDate(0, 0, dueWarningDays).After(due):
		return StatusDue
	default:
		return StatusCompliant
	}
}

// RecordCompletion moves the completion clock forward and returns the
// evidence record. Backdated completions beyond the previous one are
// rejected.
func (r *ComplianceRequirement) RecordCompletion(by uuid.UUID, completedAt time.Time, notes string) (*ComplianceEvent, error) {
	if !r.Active {
		return nil, shared.NewDomainError("INACTIVE_REQUIREMENT", "Completions cannot be recorded on a retired requirement")
	}
	if completedAt.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_COMPLETION_DATE", "Completion date cannot be in the future")
	}
	if r.LastCompletedAt != nil && completedAt.Before(*r.LastCompletedAt) {
		return nil, shared.NewDomainError("INVALID_COMPLETION_DATE", "Completion date cannot precede the previous completion")
	}
	r.LastCompletedAt = &completedAt
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return &ComplianceEvent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(r.TenantID),
		RequirementID:       r.ID,
		CompletedBy:         by,
		CompletedAt:         completedAt,
		Notes:               notes,
	}, nil
}

// Retire stops tracking the requirement
func (r *ComplianceRequirement) Retire() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// ComplianceEvent is the evidence trail for one completion
type ComplianceEvent struct {
	shared.TenantAggregateRoot
	RequirementID uuid.UUID `gorm:"type:uuid;not null;index"`
	CompletedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CompletedAt   time.Time `gorm:"type:date;not null"`
	Notes         string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ComplianceEvent) TableName() string {
	return "compliance_events"
}
