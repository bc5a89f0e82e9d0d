package pilot

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/pilot"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// FeedbackService accepts pilot feedback and manages its triage. Submissions
// are queued in process and written in batches by the collector so the
// submitting request never waits on the database.
type FeedbackService struct {
	feedbackRepo pilot.FeedbackRepository
	queue        chan *pilot.FeedbackEvent
	logger       *zap.Logger
}

// NewFeedbackService creates a feedback service with a bounded submission
// queue. queueSize of zero falls back to the default.
func NewFeedbackService(feedbackRepo pilot.FeedbackRepository, queueSize int, logger *zap.Logger) *FeedbackService {
	if queueSize < 1 {
		queueSize = 1024
	}
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		queue:        make(chan *pilot.FeedbackEvent, queueSize),
		logger:       logger,
	}
}

// Submit validates and enqueues a feedback event. A full queue rejects the
// submission rather than blocking the caller.
func (s *FeedbackService) Submit(ctx context.Context, input SubmitFeedbackInput) (*pilot.FeedbackEvent, error) {
	event, err := pilot.NewFeedbackEvent(
		input.TenantID, input.SubmittedBy,
		input.Module, pilot.Severity(input.Severity), input.Message,
	)
	if err != nil {
		return nil, err
	}

	select {
	case s.queue <- event:
	default:
		s.logger.Warn("Feedback queue full, submission rejected",
			zap.String("tenant_id", input.TenantID.String()),
			zap.String("module", event.Module))
		return nil, shared.NewDomainError("QUEUE_FULL", "Feedback cannot be accepted right now, try again shortly")
	}
	return event, nil
}

// GetFeedback retrieves one feedback event within a tenant
func (s *FeedbackService) GetFeedback(ctx context.Context, tenantID, id uuid.UUID) (*pilot.FeedbackEvent, error) {
	return s.feedbackRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListFeedback lists a tenant's feedback events
func (s *FeedbackService) ListFeedback(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pilot.FeedbackEvent, error) {
	return s.feedbackRepo.FindAllForTenant(ctx, tenantID, filter)
}

// ListByStatus lists feedback in one triage state
func (s *FeedbackService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status pilot.TriageStatus, filter shared.Filter) ([]pilot.FeedbackEvent, error) {
	return s.feedbackRepo.FindByStatus(ctx, tenantID, status, filter)
}

// Review marks a new event as reviewed
func (s *FeedbackService) Review(ctx context.Context, input TriageInput) error {
	return s.triage(ctx, input, func(ev *pilot.FeedbackEvent) error {
		return ev.MarkReviewed(input.TriagedBy, input.Note)
	})
}

// Action closes a reviewed event as acted on
func (s *FeedbackService) Action(ctx context.Context, input TriageInput) error {
	return s.triage(ctx, input, func(ev *pilot.FeedbackEvent) error {
		return ev.MarkActioned(input.TriagedBy, input.Note)
	})
}

// Dismiss closes an open event without action
func (s *FeedbackService) Dismiss(ctx context.Context, input TriageInput) error {
	return s.triage(ctx, input, func(ev *pilot.FeedbackEvent) error {
		return ev.Dismiss(input.TriagedBy, input.Note)
	})
}

func (s *FeedbackService) triage(ctx context.Context, input TriageInput, transition func(*pilot.FeedbackEvent) error) error {
	event, err := s.feedbackRepo.FindByIDForTenant(ctx, input.TenantID, input.FeedbackID)
	if err != nil {
		return err
	}
	if err := transition(event); err != nil {
		return err
	}
	if err := s.feedbackRepo.SaveWithLock(ctx, event); err != nil {
		return err
	}

	s.logger.Info("Feedback triaged",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("feedback_id", event.ID.String()),
		zap.String("status", string(event.Status)))
	return nil
}

// Stats summarises a tenant's feedback by status and module
func (s *FeedbackService) Stats(ctx context.Context, tenantID uuid.UUID) (*FeedbackStats, error) {
	byStatus, err := s.feedbackRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byModule, err := s.feedbackRepo.CountByModule(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := &FeedbackStats{ByStatus: byStatus, ByModule: byModule}
	for status, count := range byStatus {
		stats.Total += count
		if status == pilot.TriageNew || status == pilot.TriageReviewed {
			stats.Open += count
		}
	}
	return stats, nil
}

// QueueDepth reports how many submissions are waiting for the collector
func (s *FeedbackService) QueueDepth() int {
	return len(s.queue)
}
