package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	migrationapp "github.com/writecarenotes/backend/internal/application/migration"
	"github.com/writecarenotes/backend/internal/domain/migration"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// maxImportFileSize caps uploaded CSV files at 10 MiB
const maxImportFileSize = 10 << 20

// MigrationHandler handles CSV imports from a home's previous system
type MigrationHandler struct {
	BaseHandler
	importService *migrationapp.ResidentImportService
}

// NewMigrationHandler creates a new MigrationHandler
func NewMigrationHandler(importService *migrationapp.ResidentImportService) *MigrationHandler {
	return &MigrationHandler{importService: importService}
}

// ImportJobResponse is the API shape of a migration job
type ImportJobResponse struct {
	ID          string               `json:"id"`
	EntityType  string               `json:"entity_type"`
	FileName    string               `json:"file_name"`
	FileSize    int64                `json:"file_size"`
	DryRun      bool                 `json:"dry_run"`
	Status      string               `json:"status"`
	TotalRows   int                  `json:"total_rows"`
	Imported    int                  `json:"imported"`
	Skipped     int                  `json:"skipped"`
	Errored     int                  `json:"errored"`
	Issues      []migration.RowIssue `json:"issues"`
	RunBy       string               `json:"run_by"`
	StartedAt   *time.Time           `json:"started_at,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ImportResultResponse is the outcome of one migration run
type ImportResultResponse struct {
	Job      ImportJobResponse    `json:"job"`
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Errored  int                  `json:"errored"`
	Issues   []migration.RowIssue `json:"issues"`
}

func toImportJobResponse(j *migration.ImportJob) ImportJobResponse {
	return ImportJobResponse{
		ID:          j.ID.String(),
		EntityType:  j.EntityType,
		FileName:    j.FileName,
		FileSize:    j.FileSize,
		DryRun:      j.DryRun,
		Status:      string(j.Status),
		TotalRows:   j.TotalRows,
		Imported:    j.Imported,
		Skipped:     j.Skipped,
		Errored:     j.Errored,
		Issues:      j.Issues,
		RunBy:       j.RunBy.String(),
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		CreatedAt:   j.CreatedAt,
	}
}

// ImportResidents runs a resident CSV import. The file is a multipart upload
// under the "file" field; "care_home_id" and an optional "dry_run" flag come
// from the form.
func (h *MigrationHandler) ImportResidents(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	careHomeID, err := parseUUID(c.PostForm("care_home_id"))
	if err != nil {
		h.BadRequest(c, "Invalid care home ID")
		return
	}
	dryRun := c.PostForm("dry_run") == "true"

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		h.Error(c, 413, dto.ErrCodePayloadSize, "Import file exceeds the 10 MiB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Could not read the uploaded file")
		return
	}

	result, err := h.importService.ImportResidents(c.Request.Context(), migrationapp.ImportResidentsInput{
		TenantID:   tenantID,
		CareHomeID: careHomeID,
		RunBy:      userID,
		FileName:   fileHeader.Filename,
		Data:       data,
		DryRun:     dryRun,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ImportResultResponse{
		Job:      toImportJobResponse(result.Job),
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Errored:  result.Errored,
		Issues:   result.Issues,
	})
}

// GetJob returns a single migration job
func (h *MigrationHandler) GetJob(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.importService.GetJob(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toImportJobResponse(job))
}

// ListJobs returns the tenant's migration history
func (h *MigrationHandler) ListJobs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	jobs, err := h.importService.ListJobs(c.Request.Context(), tenantID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ImportJobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, toImportJobResponse(&jobs[i]))
	}
	h.Success(c, responses)
}
