package pilot

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Severity grades pilot feedback for triage ordering
type Severity string

const (
	SeverityBlocker    Severity = "blocker"
	SeverityMajor      Severity = "major"
	SeverityMinor      Severity = "minor"
	SeveritySuggestion Severity = "suggestion"
)

// TriageStatus represents the review workflow for a feedback event
type TriageStatus string

const (
	TriageNew       TriageStatus = "new"
	TriageReviewed  TriageStatus = "reviewed"
	TriageActioned  TriageStatus = "actioned"
	TriageDismissed TriageStatus = "dismissed"
)

// FeedbackEvent is one piece of pilot-programme feedback. Events are queued
// in process and batch-inserted by the background agent, so creation must be
// cheap and never touch the database.
type FeedbackEvent struct {
	shared.TenantAggregateRoot
	Module      string       `gorm:"type:varchar(50);not null;index"`
	Severity    Severity     `gorm:"type:varchar(12);not null"`
	Message     string       `gorm:"type:text;not null"`
	SubmittedBy uuid.UUID    `gorm:"type:uuid;not null"`
	Status      TriageStatus `gorm:"type:varchar(12);not null;default:'new'"`
	TriagedBy   *uuid.UUID   `gorm:"type:uuid"`
	TriageNote  string       `gorm:"type:text"`
	TriagedAt   *time.Time
}

// TableName returns the table name for GORM
func (FeedbackEvent) TableName() string {
	return "pilot_feedback_events"
}

// NewFeedbackEvent creates an untriaged feedback event
func NewFeedbackEvent(tenantID, submittedBy uuid.UUID, module string, severity Severity, message string) (*FeedbackEvent, error) {
	if module = strings.TrimSpace(module); module == "" || len(module) > 50 {
		return nil, shared.NewDomainError("INVALID_MODULE", "Module must be 1-50 characters")
	}
	switch severity {
	case SeverityBlocker, SeverityMajor, SeverityMinor, SeveritySuggestion:
	default:
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Unknown severity")
	}
	if message = strings.TrimSpace(message); message == "" || len(message) > 4000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message must be 1-4000 characters")
	}

	return &FeedbackEvent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Module:              strings.ToLower(module),
		Severity:            severity,
		Message:             message,
		SubmittedBy:         submittedBy,
		Status:              TriageNew,
	}, nil
}

// MarkReviewed moves a new event into the reviewed state
func (f *FeedbackEvent) MarkReviewed(by uuid.UUID, note string) error {
	if f.Status != TriageNew {
		return shared.NewDomainError("INVALID_STATE", "Only new feedback can be reviewed")
	}
	f.transition(TriageReviewed, by, note)
	return nil
}

// MarkActioned closes a reviewed event as acted on
func (f *FeedbackEvent) MarkActioned(by uuid.UUID, note string) error {
	if f.Status != TriageReviewed {
		return shared.NewDomainError("INVALID_STATE", "Only reviewed feedback can be actioned")
	}
	f.transition(TriageActioned, by, note)
	return nil
}

// Dismiss closes an event without action. New and reviewed events can be
// dismissed.
func (f *FeedbackEvent) Dismiss(by uuid.UUID, note string) error {
	if f.Status != TriageNew && f.Status != TriageReviewed {
		return shared.NewDomainError("INVALID_STATE", "Only open feedback can be dismissed")
	}
	if strings.TrimSpace(note) == "" {
		return shared.NewDomainError("NOTE_REQUIRED", "Dismissing feedback requires a note")
	}
	f.transition(TriageDismissed, by, note)
	return nil
}

func (f *FeedbackEvent) transition(to TriageStatus, by uuid.UUID, note string) {
	now := time.Now()
	f.Status = to
	f.TriagedBy = &by
	if note != "" {
		f.TriageNote = note
	}
	f.TriagedAt = &now
	f.UpdatedAt = now
	f.IncrementVersion()
}

// Open reports whether the event still needs attention
func (f *FeedbackEvent) Open() bool {
	return f.Status == TriageNew || f.Status == TriageReviewed
}
