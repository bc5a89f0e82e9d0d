package payroll

import (
	"time"

	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/payroll"
)

// RunPayrollInput contains the input for calculating a pay run
type RunPayrollInput struct {
	TenantID uuid.UUID
	Period   payroll.Period
}

// RunPayrollResult is the calculated run and its records
type RunPayrollResult struct {
	Run     *payroll.PayRun
	Records []*payroll.PayrollRecord
	// Skipped lists employees excluded from the run with the reason
	Skipped []SkippedEmployee
}

// SkippedEmployee names an employee left out of a run
type SkippedEmployee struct {
	EmployeeID uuid.UUID
	Reason     string
}

// ApproveRunInput contains the input for approving a run
type ApproveRunInput struct {
	TenantID   uuid.UUID
	RunID      uuid.UUID
	ApprovedBy uuid.UUID
}

// CompleteRunInput contains the input for completing a run after payment
type CompleteRunInput struct {
	TenantID    uuid.UUID
	RunID       uuid.UUID
	CompletedAt time.Time
}
