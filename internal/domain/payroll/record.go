package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
)

// RecordStatus represents the payroll record lifecycle
type RecordStatus string

const (
	RecordStatusDraft    RecordStatus = "draft"
	RecordStatusApproved RecordStatus = "approved"
	RecordStatusPaid     RecordStatus = "paid"
)

// Period identifies one pay period within a tax year, e.g. 2025-26 month 3
type Period struct {
	TaxYear   string                  `json:"tax_year"` // "2025-26"
	Number    int                     `json:"number"`   // 1-12 monthly, 1-52 weekly
	Frequency payrolltax.PayFrequency `json:"frequency"`
}

// Valid reports whether the period identifies a real pay period
func (p Period) Valid() bool {
	if len(p.TaxYear) != 7 {
		return false
	}
	switch p.Frequency {
	case payrolltax.FrequencyMonthly:
		return p.Number >= 1 && p.Number <= 12
	case payrolltax.FrequencyWeekly:
		return p.Number >= 1 && p.Number <= 53
	}
	return false
}

// PayrollRecord is one employee's calculated pay for one period. The
// breakdown is frozen at calculation time so later table changes never
// alter an approved record.
type PayrollRecord struct {
	shared.TenantAggregateRoot
	EmployeeID      uuid.UUID             `gorm:"type:uuid;not null;index:idx_payroll_employee_period,unique"`
	PayRunID        *uuid.UUID            `gorm:"type:uuid;index"`
	TaxYear         string                `gorm:"type:varchar(7);not null;index:idx_payroll_employee_period,unique"`
	PeriodNumber    int                   `gorm:"not null;index:idx_payroll_employee_period,unique"`
	Frequency       payrolltax.PayFrequency `gorm:"type:varchar(10);not null"`
	GrossPay        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	IncomeTax       decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	EmployeeNI      decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	EmployerNI      decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	EmployeePension decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	EmployerPension decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	StudentLoan     decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	NetPay          decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status          RecordStatus          `gorm:"type:varchar(10);not null;default:'draft'"`
	ApprovedBy      *uuid.UUID            `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (PayrollRecord) TableName() string {
	return "payroll_records"
}

// NewPayrollRecord creates a draft record from a calculated breakdown
func NewPayrollRecord(tenantID, employeeID uuid.UUID, period Period, b payrolltax.Breakdown) (*PayrollRecord, error) {
	if !period.Valid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Pay period is not valid for its frequency")
	}

	return &PayrollRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employeeID,
		TaxYear:             period.TaxYear,
		PeriodNumber:        period.Number,
		Frequency:           period.Frequency,
		GrossPay:            b.GrossPay,
		IncomeTax:           b.IncomeTax,
		EmployeeNI:          b.EmployeeNI,
		EmployerNI:          b.EmployerNI,
		EmployeePension:     b.EmployeePension,
		EmployerPension:     b.EmployerPension,
		StudentLoan:         b.StudentLoan,
		NetPay:              b.NetPay,
		Status:              RecordStatusDraft,
	}, nil
}

// Period returns the record's pay period
func (r *PayrollRecord) Period() Period {
	return Period{TaxYear: r.TaxYear, Number: r.PeriodNumber, Frequency: r.Frequency}
}

// TotalDeductions returns the sum of employee-side deductions
func (r *PayrollRecord) TotalDeductions() decimal.Decimal {
	return r.IncomeTax.Add(r.EmployeeNI).Add(r.EmployeePension).Add(r.StudentLoan)
}

// EmployerCost returns the full cost of employment for the period
func (r *PayrollRecord) EmployerCost() decimal.Decimal {
	return r.GrossPay.Add(r.EmployerNI).Add(r.EmployerPension)
}

// Recalculate replaces a draft record's figures, e.g. after a tax code change
func (r *PayrollRecord) Recalculate(b payrolltax.Breakdown) error {
	if r.Status != RecordStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft record can be recalculated")
	}
	r.GrossPay = b.GrossPay
	r.IncomeTax = b.IncomeTax
	r.EmployeeNI = b.EmployeeNI
	r.EmployerNI = b.EmployerNI
	r.EmployeePension = b.EmployeePension
	r.EmployerPension = b.EmployerPension
	r.StudentLoan = b.StudentLoan
	r.NetPay = b.NetPay
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Approve locks the record for payment
func (r *PayrollRecord) Approve(by uuid.UUID) error {
	if r.Status != RecordStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft record can be approved")
	}
	now := time.Now()
	r.Status = RecordStatusApproved
	r.ApprovedBy = &by
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// MarkPaid records that payment was made
func (r *PayrollRecord) MarkPaid(at time.Time) error {
	if r.Status != RecordStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only an approved record can be marked paid")
	}
	r.Status = RecordStatusPaid
	r.PaidAt = &at
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
