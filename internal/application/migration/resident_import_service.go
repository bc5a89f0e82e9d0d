package migration

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/writecarenotes/backend/internal/domain/migration"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
	csvimport "github.com/writecarenotes/backend/internal/infrastructure/import"
)

const dateLayout = "2006-01-02"

// requiredHeaders must be present in every resident migration file
var requiredHeaders = []string{"first_name", "last_name", "date_of_birth", "care_level"}

// ResidentImportService migrates resident records from a care home's previous
// system via CSV. Every run leaves an import job behind as the audit trail,
// dry runs included.
type ResidentImportService struct {
	residentRepo resident.ResidentRepository
	jobRepo      migration.ImportJobRepository
	logger       *zap.Logger
}

// NewResidentImportService creates a new resident import service
func NewResidentImportService(
	residentRepo resident.ResidentRepository,
	jobRepo migration.ImportJobRepository,
	logger *zap.Logger,
) *ResidentImportService {
	return &ResidentImportService{
		residentRepo: residentRepo,
		jobRepo:      jobRepo,
		logger:       logger,
	}
}

// ImportResidents parses, validates and applies a resident CSV. Row-level
// problems never abort the run; they are recorded against the job. A dry run
// does everything except write residents.
func (s *ResidentImportService) ImportResidents(ctx context.Context, input ImportResidentsInput) (*ImportResult, error) {
	job, err := migration.NewImportJob(input.TenantID, input.RunBy, "residents",
		input.FileName, int64(len(input.Data)), input.DryRun)
	if err != nil {
		return nil, err
	}

	parser, err := csvimport.ParseBytes(input.Data)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if missing := parser.MissingHeaders(requiredHeaders); len(missing) > 0 {
		issues := make([]migration.RowIssue, 0, len(missing))
		for _, h := range missing {
			issues = append(issues, migration.RowIssue{
				Row: 1, Column: h,
				Code:    csvimport.ErrCodeRequiredField,
				Message: "required column is missing",
			})
		}
		if err := job.Fail(issues); err != nil {
			return nil, err
		}
		if err := s.jobRepo.Save(ctx, job); err != nil {
			return nil, err
		}
		return nil, shared.NewDomainError("MISSING_COLUMNS", "The file is missing required columns")
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if err := job.Start(len(rows)); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}

	errors := csvimport.NewErrorCollection(100)
	seenNHS := make(map[string]bool)
	var imported, skipped int
	residents := make([]*resident.Resident, 0, len(rows))

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r, skip := s.importRow(ctx, input, row, seenNHS, errors)
		if skip {
			skipped++
			continue
		}
		if r == nil {
			continue
		}
		residents = append(residents, r)
		imported++
	}

	if !input.DryRun && len(residents) > 0 {
		if err := s.residentRepo.SaveBatch(ctx, residents); err != nil {
			issues := append(toIssues(errors.Errors()), migration.RowIssue{
				Code: csvimport.ErrCodeSaveFailed, Message: err.Error(),
			})
			if failErr := job.Fail(issues); failErr != nil {
				return nil, failErr
			}
			if saveErr := s.jobRepo.Save(ctx, job); saveErr != nil {
				return nil, saveErr
			}
			return nil, err
		}
	}

	if err := job.Complete(imported, skipped, errors.TotalCount(), toIssues(errors.Errors())); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Resident import finished",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("job_id", job.ID.String()),
		zap.Bool("dry_run", input.DryRun),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
		zap.Int("errored", errors.TotalCount()))

	return &ImportResult{
		Job:      job,
		Imported: imported,
		Skipped:  skipped,
		Errored:  errors.TotalCount(),
		Issues:   toIssues(errors.Errors()),
	}, nil
}

// importRow builds one resident from a row. It returns skip=true for
// duplicates and nil for rows that errored.
func (s *ResidentImportService) importRow(
	ctx context.Context,
	input ImportResidentsInput,
	row *csvimport.Row,
	seenNHS map[string]bool,
	errors *csvimport.ErrorCollection,
) (*resident.Resident, bool) {
	dob, err := time.Parse(dateLayout, row.Get("date_of_birth"))
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "date_of_birth",
			csvimport.ErrCodeMalformedValue, "date must be YYYY-MM-DD"))
		return nil, false
	}

	r, err := resident.NewResident(
		input.TenantID, input.CareHomeID,
		normalizeName(row.Get("first_name")), normalizeName(row.Get("last_name")),
		row.Get("nhs_number"),
		dob, resident.CareLevel(row.Get("care_level")),
	)
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "",
			csvimport.ErrCodeInvalidValue, err.Error()))
		return nil, false
	}

	if r.NHSNumber != "" {
		if seenNHS[r.NHSNumber] {
			return nil, true
		}
		seenNHS[r.NHSNumber] = true
		exists, err := s.residentRepo.ExistsByNHSNumber(ctx, input.TenantID, r.NHSNumber)
		if err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "nhs_number",
				csvimport.ErrCodeSaveFailed, err.Error()))
			return nil, false
		}
		if exists {
			return nil, true
		}
	}

	if room := row.Get("room"); room != "" {
		admittedOn := time.Now()
		if raw := row.Get("admitted_on"); raw != "" {
			admittedOn, err = time.Parse(dateLayout, raw)
			if err != nil {
				errors.Add(csvimport.NewRowError(row.LineNumber, "admitted_on",
					csvimport.ErrCodeMalformedValue, "date must be YYYY-MM-DD"))
				return nil, false
			}
		}
		if err := r.Admit(room, admittedOn); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "room",
				csvimport.ErrCodeInvalidValue, err.Error()))
			return nil, false
		}
	}

	if name := row.Get("gp_name"); name != "" {
		r.SetGP(name, row.Get("gp_practice"))
	}
	if name := row.Get("next_of_kin_name"); name != "" {
		kin := resident.NextOfKin{
			Name:         name,
			Relationship: row.Get("next_of_kin_relationship"),
			Phone:        row.Get("next_of_kin_phone"),
			Email:        row.Get("next_of_kin_email"),
		}
		if err := r.SetNextOfKin(kin); err != nil {
			errors.Add(csvimport.NewRowError(row.LineNumber, "next_of_kin_phone",
				csvimport.ErrCodeInvalidValue, err.Error()))
			return nil, false
		}
	}

	return r, false
}

// GetJob retrieves one import job within a tenant
func (s *ResidentImportService) GetJob(ctx context.Context, tenantID, id uuid.UUID) (*migration.ImportJob, error) {
	return s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListJobs lists a tenant's import history
func (s *ResidentImportService) ListJobs(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]migration.ImportJob, error) {
	return s.jobRepo.FindAllForTenant(ctx, tenantID, filter)
}

// normalizeName title-cases names only when the source value is single-cased.
// Legacy exports are frequently all caps; mixed case like "McDonald" is
// assumed intentional and left alone. A fresh Caser per call because Caser
// is not safe for concurrent use.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		return cases.Title(language.BritishEnglish).String(strings.ToLower(name))
	}
	return name
}

func toIssues(rowErrors []csvimport.RowError) []migration.RowIssue {
	issues := make([]migration.RowIssue, 0, len(rowErrors))
	for _, e := range rowErrors {
		issues = append(issues, migration.RowIssue{
			Row:     e.Row,
			Column:  e.Column,
			Code:    e.Code,
			Message: e.Message,
		})
	}
	return issues
}
