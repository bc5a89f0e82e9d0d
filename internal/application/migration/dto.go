package migration

import (
	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/migration"
)

// ImportResidentsInput contains the input for a resident CSV migration
type ImportResidentsInput struct {
	TenantID   uuid.UUID
	CareHomeID uuid.UUID
	RunBy      uuid.UUID
	FileName   string
	Data       []byte
	// DryRun validates and reports without writing any resident records
	DryRun bool
}

// ImportResult summarises one migration run
type ImportResult struct {
	Job      *migration.ImportJob
	Imported int
	Skipped  int
	Errored  int
	Issues   []migration.RowIssue
}
