package payroll

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/hr"
	"github.com/writecarenotes/backend/internal/domain/payroll"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
)

// PayRunService calculates and manages pay runs. Re-running a draft run
// discards its draft records and recalculates from the current contracts and
// tax details; approved runs are immutable.
type PayRunService struct {
	runRepo      payroll.RunRepository
	recordRepo   payroll.RecordRepository
	employeeRepo hr.EmployeeRepository
	calculator   *payrolltax.Calculator
	logger       *zap.Logger
}

// NewPayRunService creates a new pay run service
func NewPayRunService(
	runRepo payroll.RunRepository,
	recordRepo payroll.RecordRepository,
	employeeRepo hr.EmployeeRepository,
	calculator *payrolltax.Calculator,
	logger *zap.Logger,
) *PayRunService {
	return &PayRunService{
		runRepo:      runRepo,
		recordRepo:   recordRepo,
		employeeRepo: employeeRepo,
		calculator:   calculator,
		logger:       logger,
	}
}

// RunPayroll calculates a draft run for the period. Running again for the
// same period replaces the previous draft.
func (s *PayRunService) RunPayroll(ctx context.Context, input RunPayrollInput) (*RunPayrollResult, error) {
	run, err := s.runRepo.FindByPeriod(ctx, input.TenantID, input.Period)
	switch {
	case err == nil:
		if run.Status != payroll.RunStatusDraft {
			return nil, shared.NewDomainError("RUN_LOCKED", "This period's run has been approved and cannot be rerun")
		}
		if err := s.recordRepo.DeleteDraftsByRun(ctx, input.TenantID, run.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		run, err = payroll.NewPayRun(input.TenantID, input.Period)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	employees, err := s.employeeRepo.FindActiveForTenant(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	var records []*payroll.PayrollRecord
	var skipped []SkippedEmployee
	for i := range employees {
		e := &employees[i]
		if e.Contract.PayFrequency != input.Period.Frequency {
			skipped = append(skipped, SkippedEmployee{
				EmployeeID: e.ID,
				Reason:     "pay frequency does not match the run",
			})
			continue
		}

		breakdown, err := s.calculator.Calculate(payrolltax.Input{
			GrossPay:        e.GrossPerPeriod(),
			Frequency:       e.Contract.PayFrequency,
			TaxCode:         e.TaxCode,
			NICategory:      e.NICategory,
			PensionOptOut:   e.PensionOptOut,
			PensionRate:     e.PensionRate,
			StudentLoanPlan: e.StudentLoan,
		})
		if err != nil {
			s.logger.Warn("Employee excluded from pay run",
				zap.String("employee_id", e.ID.String()),
				zap.Error(err))
			skipped = append(skipped, SkippedEmployee{EmployeeID: e.ID, Reason: err.Error()})
			continue
		}

		rec, err := payroll.NewPayrollRecord(input.TenantID, e.ID, input.Period, breakdown)
		if err != nil {
			return nil, err
		}
		rec.PayRunID = &run.ID
		records = append(records, rec)
	}

	if err := run.SetTotals(records); err != nil {
		return nil, err
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	if len(records) > 0 {
		if err := s.recordRepo.SaveBatch(ctx, records); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Pay run calculated",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("run_id", run.ID.String()),
		zap.String("tax_year", run.TaxYear),
		zap.Int("period", run.PeriodNumber),
		zap.Int("employees", run.EmployeeCount),
		zap.Int("skipped", len(skipped)))

	return &RunPayrollResult{Run: run, Records: records, Skipped: skipped}, nil
}

// ApproveRun locks a run and all its records for payment
func (s *PayRunService) ApproveRun(ctx context.Context, input ApproveRunInput) error {
	run, err := s.runRepo.FindByIDForTenant(ctx, input.TenantID, input.RunID)
	if err != nil {
		return err
	}
	if err := run.Approve(input.ApprovedBy); err != nil {
		return err
	}

	records, err := s.recordRepo.FindByRun(ctx, input.TenantID, run.ID)
	if err != nil {
		return err
	}
	for i := range records {
		if err := records[i].Approve(input.ApprovedBy); err != nil {
			return err
		}
		if err := s.recordRepo.Save(ctx, &records[i]); err != nil {
			return err
		}
	}
	if err := s.runRepo.SaveWithLock(ctx, run); err != nil {
		return err
	}

	s.logger.Info("Pay run approved",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("run_id", run.ID.String()),
		zap.String("approved_by", input.ApprovedBy.String()))
	return nil
}

// CompleteRun marks a run and its records paid
func (s *PayRunService) CompleteRun(ctx context.Context, input CompleteRunInput) error {
	run, err := s.runRepo.FindByIDForTenant(ctx, input.TenantID, input.RunID)
	if err != nil {
		return err
	}
	if err := run.Complete(input.CompletedAt); err != nil {
		return err
	}

	records, err := s.recordRepo.FindByRun(ctx, input.TenantID, run.ID)
	if err != nil {
		return err
	}
	for i := range records {
		if err := records[i].MarkPaid(input.CompletedAt); err != nil {
			return err
		}
		if err := s.recordRepo.Save(ctx, &records[i]); err != nil {
			return err
		}
	}
	return s.runRepo.SaveWithLock(ctx, run)
}

// GetRun retrieves a run with its records
func (s *PayRunService) GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*payroll.PayRun, []payroll.PayrollRecord, error) {
	run, err := s.runRepo.FindByIDForTenant(ctx, tenantID, runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.recordRepo.FindByRun(ctx, tenantID, runID)
	if err != nil {
		return nil, nil, err
	}
	return run, records, nil
}

// ListRuns lists a tenant's pay runs
func (s *PayRunService) ListRuns(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payroll.PayRun, error) {
	return s.runRepo.FindAllForTenant(ctx, tenantID, filter)
}

// Payslips returns one employee's records across periods
func (s *PayRunService) Payslips(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]payroll.PayrollRecord, error) {
	return s.recordRepo.FindByEmployee(ctx, tenantID, employeeID, filter)
}
