package resident

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// CarePlanStatus represents the review status of a care plan
type CarePlanStatus string

const (
	CarePlanStatusDraft    CarePlanStatus = "draft"
	CarePlanStatusActive   CarePlanStatus = "active"
	CarePlanStatusArchived CarePlanStatus = "archived"
)

// ReviewOutcome derives where a plan stands against its review cycle
type ReviewOutcome string

const (
	ReviewCurrent ReviewOutcome = "current"
	ReviewDue     ReviewOutcome = "due"     // within the warning window
	ReviewOverdue ReviewOutcome = "overdue" // past the review date
)

// reviewWarningWindow is how far ahead of the review date a plan counts as due
const reviewWarningWindow = 14 * 24 * time.Hour

// CarePlan is a structured plan of care for one resident, reviewed on a
// fixed cycle.
type CarePlan struct {
	shared.TenantAggregateRoot
	ResidentID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title            string         `gorm:"type:varchar(200);not null"`
	Summary          string         `gorm:"type:text"`
	Status           CarePlanStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	ReviewEveryDays  int            `gorm:"not null;default:90"`
	LastReviewedAt   *time.Time
	NextReviewAt     *time.Time
	ReviewedBy       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CarePlan) TableName() string {
	return "care_plans"
}

// NewCarePlan creates a draft care plan for a resident
func NewCarePlan(tenantID, residentID uuid.UUID, title, summary string, reviewEveryDays int) (*CarePlan, error) {
	if title = strings.TrimSpace(title); title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Care plan title must be 1-200 characters")
	}
	if reviewEveryDays < 7 || reviewEveryDays > 365 {
		return nil, shared.NewDomainError("INVALID_REVIEW_CYCLE", "Review cycle must be between 7 and 365 days")
	}

	return &CarePlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ResidentID:          residentID,
		Title:               title,
		Summary:             summary,
		Status:              CarePlanStatusDraft,
		ReviewEveryDays:     reviewEveryDays,
	}, nil
}

// Activate publishes the plan and starts the review clock
func (p *CarePlan) Activate(by uuid.UUID) error {
	if p.Status != CarePlanStatusDraft {
		return shared.ErrInvalidState
	}
	now := time.Now()
	next := now.Add(time.Duration(p.ReviewEveryDays) * 24 * time.Hour)
	p.Status = CarePlanStatusActive
	p.LastReviewedAt = &now
	p.NextReviewAt = &next
	p.ReviewedBy = &by
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// RecordReview resets the review clock after a completed review
func (p *CarePlan) RecordReview(by uuid.UUID, summary string) error {
	if p.Status != CarePlanStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active plan can be reviewed")
	}
	now := time.Now()
	next := now.Add(time.Duration(p.ReviewEveryDays) * 24 * time.Hour)
	if summary != "" {
		p.Summary = summary
	}
	p.LastReviewedAt = &now
	p.NextReviewAt = &next
	p.ReviewedBy = &by
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Archive retires the plan, e.g. on discharge
func (p *CarePlan) Archive() {
	p.Status = CarePlanStatusArchived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ReviewStatus derives the plan's standing against its review date at the
// given instant.
func (p *CarePlan) ReviewStatus(now time.Time) ReviewOutcome {
	if p.NextReviewAt == nil {
		return ReviewCurrent
	}
	switch {
	case now.After(*p.NextReviewAt):
		return ReviewOverdue
	case now.Add(reviewWarningWindow).After(*p.NextReviewAt):
		return ReviewDue
	default:
		return ReviewCurrent
	}
}
