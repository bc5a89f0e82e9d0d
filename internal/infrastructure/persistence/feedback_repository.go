package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/pilot"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormFeedbackRepository implements FeedbackRepository using GORM
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new GormFeedbackRepository
func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// FindByIDForTenant finds a feedback event by ID within a tenant
func (r *GormFeedbackRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pilot.FeedbackEvent, error) {
	var ev pilot.FeedbackEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// FindAllForTenant finds all feedback events for a tenant
func (r *GormFeedbackRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pilot.FeedbackEvent, error) {
	var events []pilot.FeedbackEvent
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&pilot.FeedbackEvent{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindByStatus finds feedback events by triage status for a tenant
func (r *GormFeedbackRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status pilot.TriageStatus, filter shared.Filter) ([]pilot.FeedbackEvent, error) {
	var events []pilot.FeedbackEvent
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&pilot.FeedbackEvent{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CountByStatus counts a tenant's feedback grouped by triage status
func (r *GormFeedbackRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[pilot.TriageStatus]int64, error) {
	var rows []struct {
		Status pilot.TriageStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&pilot.FeedbackEvent{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[pilot.TriageStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByModule counts a tenant's feedback grouped by module
func (r *GormFeedbackRepository) CountByModule(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Module string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&pilot.FeedbackEvent{}).
		Select("module, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("module").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Module] = row.Count
	}
	return counts, nil
}

// SaveBatch persists a drained collector batch
func (r *GormFeedbackRepository) SaveBatch(ctx context.Context, events []*pilot.FeedbackEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(events).Error
}

// Save persists one feedback event
func (r *GormFeedbackRepository) Save(ctx context.Context, ev *pilot.FeedbackEvent) error {
	return r.db.WithContext(ctx).Save(ev).Error
}

// SaveWithLock saves a feedback event with optimistic locking (version check)
func (r *GormFeedbackRepository) SaveWithLock(ctx context.Context, ev *pilot.FeedbackEvent) error {
	result := r.db.WithContext(ctx).
		Model(ev).
		Where("id = ? AND version = ?", ev.ID, ev.Version-1).
		Updates(ev)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The feedback event has been modified by another transaction")
	}
	return nil
}

func (r *GormFeedbackRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("message ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "module":
			query = query.Where("module = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		}
	}
	return applyPagination(query, filter, "created_at DESC")
}

// Ensure GormFeedbackRepository implements FeedbackRepository
var _ pilot.FeedbackRepository = (*GormFeedbackRepository)(nil)
