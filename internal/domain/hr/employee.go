package hr

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
)

// EmployeeStatus represents the employment lifecycle
type EmployeeStatus string

const (
	EmployeeStatusActive  EmployeeStatus = "active"
	EmployeeStatusOnLeave EmployeeStatus = "on_leave"
	EmployeeStatusLeft    EmployeeStatus = "left"
)

// PayBasis says how the contract expresses pay
type PayBasis string

const (
	PayBasisSalaried PayBasis = "salaried"
	PayBasisHourly   PayBasis = "hourly"
)

// Contract holds the employment terms that drive payroll
type Contract struct {
	Basis          PayBasis        `json:"basis"`
	AnnualSalary   decimal.Decimal `json:"annual_salary"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	HoursPerWeek   decimal.Decimal `json:"hours_per_week"`
	PayFrequency   payrolltax.PayFrequency `json:"pay_frequency"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
}

// Employee is the aggregate root for a member of staff. Its tax fields feed
// the payroll calculator directly.
type Employee struct {
	shared.TenantAggregateRoot
	EmployeeNumber string                    `gorm:"type:varchar(20);not null"`
	FirstName      string                    `gorm:"type:varchar(100);not null"`
	LastName       string                    `gorm:"type:varchar(100);not null"`
	Email          string                    `gorm:"type:varchar(255)"`
	Phone          string                    `gorm:"type:varchar(20)"`
	JobTitle       string                    `gorm:"type:varchar(100);not null"`
	NINumber       string                    `gorm:"type:varchar(9);not null"`
	TaxCode        string                    `gorm:"type:varchar(10);not null"`
	NICategory     payrolltax.NICategory     `gorm:"type:varchar(1);not null;default:'A'"`
	PensionOptOut  bool                      `gorm:"not null;default:false"`
	PensionRate    decimal.Decimal           `gorm:"type:decimal(5,4)"`
	StudentLoan    payrolltax.StudentLoanPlan `gorm:"type:varchar(10)"`
	Contract       Contract                  `gorm:"serializer:json"`
	Status         EmployeeStatus            `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates an active employee
func NewEmployee(tenantID, careHomeID uuid.UUID, number, firstName, lastName, jobTitle, niNumber, taxCode string, niCategory payrolltax.NICategory, contract Contract) (*Employee, error) {
	if number = strings.TrimSpace(number); number == "" || len(number) > 20 {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number must be 1-20 characters")
	}
	if firstName = strings.TrimSpace(firstName); firstName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name is required")
	}
	if lastName = strings.TrimSpace(lastName); lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name is required")
	}
	if jobTitle = strings.TrimSpace(jobTitle); jobTitle == "" {
		return nil, shared.NewDomainError("INVALID_JOB_TITLE", "Job title is required")
	}
	niNumber = strings.ToUpper(strings.ReplaceAll(niNumber, " ", ""))
	if !shared.ValidNINumber(niNumber) {
		return nil, shared.NewDomainError("INVALID_NI_NUMBER", "National Insurance number is not in HMRC format")
	}
	if _, err := payrolltax.ParseTaxCode(taxCode); err != nil {
		return nil, err
	}
	if !niCategory.Valid() {
		return nil, shared.NewDomainError("INVALID_NI_CATEGORY", "Unknown NI category letter")
	}
	if err := validateContract(contract); err != nil {
		return nil, err
	}

	return &Employee{
		TenantAggregateRoot: shared.NewCareHomeAggregateRoot(tenantID, careHomeID),
		EmployeeNumber:      number,
		FirstName:           firstName,
		LastName:            lastName,
		JobTitle:            jobTitle,
		NINumber:            niNumber,
		TaxCode:             strings.ToUpper(strings.TrimSpace(taxCode)),
		NICategory:          niCategory,
		Contract:            contract,
		Status:              EmployeeStatusActive,
	}, nil
}

func validateContract(c Contract) error {
	switch c.Basis {
	case PayBasisSalaried:
		if !c.AnnualSalary.IsPositive() {
			return shared.NewDomainError("INVALID_CONTRACT", "Salaried contracts require a positive annual salary")
		}
	case PayBasisHourly:
		if !c.HourlyRate.IsPositive() || !c.HoursPerWeek.IsPositive() {
			return shared.NewDomainError("INVALID_CONTRACT", "Hourly contracts require a positive rate and weekly hours")
		}
	default:
		return shared.NewDomainError("INVALID_CONTRACT", "Unknown pay basis")
	}
	switch c.PayFrequency {
	case payrolltax.FrequencyMonthly, payrolltax.FrequencyWeekly:
	default:
		return shared.NewDomainError("INVALID_CONTRACT", "Pay frequency must be monthly or weekly")
	}
	if c.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_CONTRACT", "Contract start date is required")
	}
	return nil
}

// FullName returns the employee's display name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// GrossPerPeriod derives the contractual gross pay for one pay period
func (e *Employee) GrossPerPeriod() decimal.Decimal {
	periods := e.Contract.PayFrequency.PeriodsPerYear()
	switch e.Contract.Basis {
	case PayBasisSalaried:
		return e.Contract.AnnualSalary.Div(periods).Round(2)
	case PayBasisHourly:
		annual := e.Contract.HourlyRate.Mul(e.Contract.HoursPerWeek).Mul(decimal.NewFromInt(52))
		return annual.Div(periods).Round(2)
	}
	return decimal.Zero
}

// SetPhone validates and sets a UK contact number
func (e *Employee) SetPhone(phone string) error {
	if phone != "" && !shared.ValidUKPhone(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone is not a valid UK number")
	}
	e.Phone = phone
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetTaxDetails updates HMRC coding, normally after a P6/P9 notice
func (e *Employee) SetTaxDetails(taxCode string, niCategory payrolltax.NICategory, studentLoan payrolltax.StudentLoanPlan) error {
	if _, err := payrolltax.ParseTaxCode(taxCode); err != nil {
		return err
	}
	if !niCategory.Valid() {
		return shared.NewDomainError("INVALID_NI_CATEGORY", "Unknown NI category letter")
	}
	e.TaxCode = strings.ToUpper(strings.TrimSpace(taxCode))
	e.NICategory = niCategory
	e.StudentLoan = studentLoan
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetPension records auto-enrolment choices. A zero rate keeps the statutory
// default.
func (e *Employee) SetPension(optOut bool, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_PENSION_RATE", "Pension rate must be a fraction between 0 and 1")
	}
	e.PensionOptOut = optOut
	e.PensionRate = rate
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// MarkOnLeave pauses the employment without ending it
func (e *Employee) MarkOnLeave() error {
	if e.Status != EmployeeStatusActive {
		return shared.ErrInvalidState
	}
	e.Status = EmployeeStatusOnLeave
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Reinstate returns an on-leave employee to active
func (e *Employee) Reinstate() error {
	if e.Status != EmployeeStatusOnLeave {
		return shared.ErrInvalidState
	}
	e.Status = EmployeeStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// RecordLeaving ends the employment
func (e *Employee) RecordLeaving(on time.Time) error {
	if e.Status == EmployeeStatusLeft {
		return shared.ErrInvalidState
	}
	if on.Before(e.Contract.StartDate) {
		return shared.NewDomainError("INVALID_LEAVING_DATE", "Leaving date cannot precede the contract start")
	}
	e.Status = EmployeeStatusLeft
	e.Contract.EndDate = &on
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// OnPayroll reports whether the employee should be included in a pay run
func (e *Employee) OnPayroll() bool {
	return e.Status == EmployeeStatusActive
}
