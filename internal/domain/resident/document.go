package resident

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// DocumentCategory classifies uploaded care documents
type DocumentCategory string

const (
	DocumentCategoryAssessment DocumentCategory = "assessment"
	DocumentCategoryMedical    DocumentCategory = "medical"
	DocumentCategoryLegal      DocumentCategory = "legal"
	DocumentCategoryOther      DocumentCategory = "other"
)

// maxDocumentSize is the largest accepted upload (20 MiB)
const maxDocumentSize = 20 << 20

// Document is metadata for a care document held in object storage. The
// object key is derived from tenant, resident and document IDs so storage
// stays partitioned per tenant.
type Document struct {
	shared.TenantAggregateRoot
	ResidentID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	FileName    string           `gorm:"type:varchar(255);not null"`
	ContentType string           `gorm:"type:varchar(100);not null"`
	SizeBytes   int64            `gorm:"not null"`
	Category    DocumentCategory `gorm:"type:varchar(20);not null;default:'other'"`
	StorageKey  string           `gorm:"type:varchar(500);not null;uniqueIndex"`
	UploadedBy  uuid.UUID        `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "resident_documents"
}

// NewDocument creates document metadata for an upload
func NewDocument(tenantID, residentID, uploadedBy uuid.UUID, fileName, contentType string, sizeBytes int64, category DocumentCategory) (*Document, error) {
	if fileName = strings.TrimSpace(fileName); fileName == "" || len(fileName) > 255 {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name must be 1-255 characters")
	}
	if strings.ContainsAny(fileName, "/\\") {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	if sizeBytes <= 0 || sizeBytes > maxDocumentSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be between 1 byte and 20 MiB")
	}
	switch category {
	case DocumentCategoryAssessment, DocumentCategoryMedical, DocumentCategoryLegal, DocumentCategoryOther:
	default:
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown document category")
	}

	doc := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ResidentID:          residentID,
		FileName:            fileName,
		ContentType:         contentType,
		SizeBytes:           sizeBytes,
		Category:            category,
		UploadedBy:          uploadedBy,
	}
	doc.StorageKey = buildStorageKey(tenantID, residentID, doc.ID, fileName)
	return doc, nil
}

// buildStorageKey partitions objects by tenant then resident
func buildStorageKey(tenantID, residentID, docID uuid.UUID, fileName string) string {
	return "tenants/" + tenantID.String() + "/residents/" + residentID.String() + "/documents/" + docID.String() + "/" + fileName
}

// AgeAt returns how long ago the document was uploaded
func (d *Document) AgeAt(now time.Time) time.Duration {
	return now.Sub(d.CreatedAt)
}
