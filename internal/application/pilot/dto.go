package pilot

import (
	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/pilot"
)

// SubmitFeedbackInput contains the input for submitting pilot feedback
type SubmitFeedbackInput struct {
	TenantID    uuid.UUID
	SubmittedBy uuid.UUID
	Module      string
	Severity    string
	Message     string
}

// TriageInput contains the input for moving feedback through triage
type TriageInput struct {
	TenantID   uuid.UUID
	FeedbackID uuid.UUID
	TriagedBy  uuid.UUID
	Note       string
}

// FeedbackStats summarises a tenant's feedback for the pilot dashboard
type FeedbackStats struct {
	ByStatus map[pilot.TriageStatus]int64
	ByModule map[string]int64
	Open     int64
	Total    int64
}
