package pilot

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// FeedbackRepository defines the interface for feedback persistence
type FeedbackRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeedbackEvent, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FeedbackEvent, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status TriageStatus, filter shared.Filter) ([]FeedbackEvent, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[TriageStatus]int64, error)
	CountByModule(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
	SaveBatch(ctx context.Context, events []*FeedbackEvent) error
	Save(ctx context.Context, ev *FeedbackEvent) error
	SaveWithLock(ctx context.Context, ev *FeedbackEvent) error
}
