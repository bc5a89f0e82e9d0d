package migration

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ImportStatus represents the lifecycle of a data migration job
type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// IsTerminal reports whether the job has finished
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// RowIssue records why one source row was not migrated
type RowIssue struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportJob tracks one CSV migration run from a home's previous system. The
// job is the audit record: what file, who ran it, and what happened to every
// row.
type ImportJob struct {
	shared.TenantAggregateRoot
	EntityType  string       `gorm:"type:varchar(20);not null"`
	FileName    string       `gorm:"type:varchar(255);not null"`
	FileSize    int64        `gorm:"not null"`
	DryRun      bool         `gorm:"not null"`
	Status      ImportStatus `gorm:"type:varchar(10);not null;default:'pending'"`
	TotalRows   int          `gorm:"not null"`
	Imported    int          `gorm:"not null"`
	Skipped     int          `gorm:"not null"`
	Errored     int          `gorm:"not null"`
	Issues      []RowIssue   `gorm:"serializer:json"`
	RunBy       uuid.UUID    `gorm:"type:uuid;not null"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (ImportJob) TableName() string {
	return "import_jobs"
}

// NewImportJob creates a pending migration job
func NewImportJob(tenantID, runBy uuid.UUID, entityType, fileName string, fileSize int64, dryRun bool) (*ImportJob, error) {
	if entityType = strings.TrimSpace(entityType); entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type is required")
	}
	if fileName = strings.TrimSpace(fileName); fileName == "" || len(fileName) > 255 {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name must be 1-255 characters")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	return &ImportJob{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntityType:          entityType,
		FileName:            fileName,
		FileSize:            fileSize,
		DryRun:              dryRun,
		Status:              ImportStatusPending,
		Issues:              make([]RowIssue, 0),
		RunBy:               runBy,
	}, nil
}

// Start marks the job as running against a known row count
func (j *ImportJob) Start(totalRows int) error {
	if j.Status != ImportStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending job can start")
	}
	now := time.Now()
	j.Status = ImportStatusRunning
	j.TotalRows = totalRows
	j.StartedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// Complete finishes the job with its per-row outcome. A run where nothing
// imported and something errored is recorded as failed.
func (j *ImportJob) Complete(imported, skipped, errored int, issues []RowIssue) error {
	if j.Status != ImportStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only a running job can complete")
	}
	now := time.Now()
	j.Status = ImportStatusCompleted
	if errored > 0 && imported == 0 {
		j.Status = ImportStatusFailed
	}
	j.Imported = imported
	j.Skipped = skipped
	j.Errored = errored
	j.Issues = issues
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// Fail aborts the job before any rows were applied
func (j *ImportJob) Fail(issues []RowIssue) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "The job has already finished")
	}
	now := time.Now()
	j.Status = ImportStatusFailed
	j.Issues = issues
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}
