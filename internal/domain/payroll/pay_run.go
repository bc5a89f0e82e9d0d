package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
)

// RunStatus represents the pay run lifecycle
type RunStatus string

const (
	RunStatusDraft     RunStatus = "draft"
	RunStatusApproved  RunStatus = "approved"
	RunStatusCompleted RunStatus = "completed"
)

// PayRun batches one period's payroll records for a tenant. Re-running a
// draft run replaces its records; runs past draft are immutable.
type PayRun struct {
	shared.TenantAggregateRoot
	TaxYear       string                  `gorm:"type:varchar(7);not null;index:idx_payrun_tenant_period,unique"`
	PeriodNumber  int                     `gorm:"not null;index:idx_payrun_tenant_period,unique"`
	Frequency     payrolltax.PayFrequency `gorm:"type:varchar(10);not null"`
	Status        RunStatus               `gorm:"type:varchar(10);not null;default:'draft'"`
	EmployeeCount int                     `gorm:"not null;default:0"`
	TotalGross    decimal.Decimal         `gorm:"type:decimal(14,2);not null"`
	TotalNet      decimal.Decimal         `gorm:"type:decimal(14,2);not null"`
	TotalCost     decimal.Decimal         `gorm:"type:decimal(14,2);not null"`
	ApprovedBy    *uuid.UUID              `gorm:"type:uuid"`
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (PayRun) TableName() string {
	return "pay_runs"
}

// NewPayRun creates a draft run for a period
func NewPayRun(tenantID uuid.UUID, period Period) (*PayRun, error) {
	if !period.Valid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Pay period is not valid for its frequency")
	}
	return &PayRun{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TaxYear:             period.TaxYear,
		PeriodNumber:        period.Number,
		Frequency:           period.Frequency,
		Status:              RunStatusDraft,
		TotalGross:          decimal.Zero,
		TotalNet:            decimal.Zero,
		TotalCost:           decimal.Zero,
	}, nil
}

// Period returns the run's pay period
func (pr *PayRun) Period() Period {
	return Period{TaxYear: pr.TaxYear, Number: pr.PeriodNumber, Frequency: pr.Frequency}
}

// SetTotals replaces the run summary after (re)calculation
func (pr *PayRun) SetTotals(records []*PayrollRecord) error {
	if pr.Status != RunStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft run can be recalculated")
	}
	gross, net, cost := decimal.Zero, decimal.Zero, decimal.Zero
	for _, rec := range records {
		gross = gross.Add(rec.GrossPay)
		net = net.Add(rec.NetPay)
		cost = cost.Add(rec.EmployerCost())
	}
	pr.EmployeeCount = len(records)
	pr.TotalGross = gross
	pr.TotalNet = net
	pr.TotalCost = cost
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()
	return nil
}

// Approve locks the run and its records for payment
func (pr *PayRun) Approve(by uuid.UUID) error {
	if pr.Status != RunStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft run can be approved")
	}
	if pr.EmployeeCount == 0 {
		return shared.NewDomainError("EMPTY_RUN", "A run with no records cannot be approved")
	}
	pr.Status = RunStatusApproved
	pr.ApprovedBy = &by
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()
	return nil
}

// Complete records that all payments were made
func (pr *PayRun) Complete(at time.Time) error {
	if pr.Status != RunStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only an approved run can be completed")
	}
	pr.Status = RunStatusCompleted
	pr.CompletedAt = &at
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()
	return nil
}
