package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Budget tracks planned versus actual spend for one care-home cost centre in
// one financial year.
type Budget struct {
	shared.TenantAggregateRoot
	CostCentre    string          `gorm:"type:varchar(50);not null"`
	FinancialYear string          `gorm:"type:varchar(7);not null"` // "2025-26"
	Planned       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Spent         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (Budget) TableName() string {
	return "budgets"
}

// NewBudget creates a budget for a cost centre and year
func NewBudget(tenantID, careHomeID uuid.UUID, costCentre, financialYear string, planned decimal.Decimal) (*Budget, error) {
	if costCentre = strings.TrimSpace(costCentre); costCentre == "" || len(costCentre) > 50 {
		return nil, shared.NewDomainError("INVALID_COST_CENTRE", "Cost centre must be 1-50 characters")
	}
	if len(financialYear) != 7 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Financial year must look like 2025-26")
	}
	if planned.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Planned amount cannot be negative")
	}

	return &Budget{
		TenantAggregateRoot: shared.NewCareHomeAggregateRoot(tenantID, careHomeID),
		CostCentre:          costCentre,
		FinancialYear:       financialYear,
		Planned:             planned,
		Spent:               decimal.Zero,
	}, nil
}

// RecordSpend adds actual expenditure against the budget
func (b *Budget) RecordSpend(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Spend must be positive")
	}
	b.Spent = b.Spent.Add(amount)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Revise replaces the planned amount mid-year
func (b *Budget) Revise(planned decimal.Decimal) error {
	if planned.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Planned amount cannot be negative")
	}
	b.Planned = planned
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Variance returns planned minus spent; negative means overspent
func (b *Budget) Variance() decimal.Decimal {
	return b.Planned.Sub(b.Spent)
}

// Overspent reports whether actuals exceed the plan
func (b *Budget) Overspent() bool {
	return b.Spent.GreaterThan(b.Planned)
}
