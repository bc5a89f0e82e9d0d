package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByIDForTenant finds a document by ID within a tenant
func (r *GormDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*resident.Document, error) {
	var doc resident.Document
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByResident finds document metadata for a resident
func (r *GormDocumentRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]resident.Document, error) {
	var docs []resident.Document
	query := r.db.WithContext(ctx).Model(&resident.Document{}).
		Where("tenant_id = ? AND resident_id = ?", tenantID, residentID)
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if filter.Search != "" {
		query = query.Where("file_name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyPagination(query, filter, "created_at DESC")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save creates or updates a document record
func (r *GormDocumentRepository) Save(ctx context.Context, doc *resident.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// DeleteForTenant deletes a document record within a tenant
func (r *GormDocumentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&resident.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ resident.DocumentRepository = (*GormDocumentRepository)(nil)
