package resident

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// allowedContentTypes is the whitelist for care document uploads. Scripts and
// executables are rejected outright; SVG is excluded because it can carry
// inline script.
var allowedContentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
}

// ObjectStorageService is implemented by the infrastructure layer (S3 or any
// S3-compatible store).
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned URL the client PUTs the file to
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned URL for fetching an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// DocumentServiceConfig holds URL expiry settings
type DocumentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultDocumentServiceConfig returns the default configuration
func DefaultDocumentServiceConfig() DocumentServiceConfig {
	return DocumentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// DocumentService handles care document uploads via presigned URLs. Files
// never pass through the API server.
type DocumentService struct {
	documentRepo resident.DocumentRepository
	residentRepo resident.ResidentRepository
	storage      ObjectStorageService
	config       DocumentServiceConfig
	logger       *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documentRepo resident.DocumentRepository,
	residentRepo resident.ResidentRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		residentRepo: residentRepo,
		storage:      storage,
		config:       DefaultDocumentServiceConfig(),
		logger:       logger,
	}
}

// SetConfig sets the service configuration
func (s *DocumentService) SetConfig(config DocumentServiceConfig) {
	s.config = config
}

// InitiateUpload validates the upload, records the document metadata and
// returns a presigned upload URL.
func (s *DocumentService) InitiateUpload(ctx context.Context, input InitiateUploadInput) (*InitiateUploadResult, error) {
	if !allowedContentTypes[input.ContentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "This file type cannot be uploaded")
	}
	if _, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID); err != nil {
		return nil, err
	}

	doc, err := resident.NewDocument(
		input.TenantID, input.ResidentID, input.UploadedBy,
		input.FileName, input.ContentType, input.SizeBytes,
		resident.DocumentCategory(input.Category),
	)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, doc.StorageKey, doc.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare upload")
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("Document upload initiated",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", input.ResidentID.String()),
		zap.String("document_id", doc.ID.String()))

	return &InitiateUploadResult{Document: doc, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// GetDownloadURL returns a presigned download URL for a document
func (s *DocumentService) GetDownloadURL(ctx context.Context, tenantID, documentID uuid.UUID) (*DownloadResult, error) {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign download", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare download")
	}
	return &DownloadResult{Document: doc, DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// ListDocuments lists a resident's documents
func (s *DocumentService) ListDocuments(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]resident.Document, error) {
	return s.documentRepo.FindByResident(ctx, tenantID, residentID, filter)
}

// DeleteDocument removes the metadata and the stored object
func (s *DocumentService) DeleteDocument(ctx context.Context, tenantID, documentID uuid.UUID) error {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if err := s.documentRepo.DeleteForTenant(ctx, tenantID, documentID); err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		// metadata is gone; the orphaned object is cleaned up out of band
		s.logger.Error("Failed to delete stored object",
			zap.String("storage_key", doc.StorageKey), zap.Error(err))
	}
	return nil
}
