package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/migration"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormImportJobRepository implements ImportJobRepository using GORM
type GormImportJobRepository struct {
	db *gorm.DB
}

// NewGormImportJobRepository creates a new GormImportJobRepository
func NewGormImportJobRepository(db *gorm.DB) *GormImportJobRepository {
	return &GormImportJobRepository{db: db}
}

// FindByIDForTenant finds an import job by ID within a tenant
func (r *GormImportJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*migration.ImportJob, error) {
	var job migration.ImportJob
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAllForTenant finds a tenant's import history, newest first
func (r *GormImportJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]migration.ImportJob, error) {
	var jobs []migration.ImportJob
	query := r.db.WithContext(ctx).Model(&migration.ImportJob{}).
		Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		}
	}
	query = applyPagination(query, filter, "created_at DESC")
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Save creates or updates an import job
func (r *GormImportJobRepository) Save(ctx context.Context, job *migration.ImportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// Ensure GormImportJobRepository implements ImportJobRepository
var _ migration.ImportJobRepository = (*GormImportJobRepository)(nil)
