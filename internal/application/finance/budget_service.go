package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// BudgetService tracks planned versus actual spend per cost centre
type BudgetService struct {
	budgetRepo finance.BudgetRepository
	logger     *zap.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(budgetRepo finance.BudgetRepository, logger *zap.Logger) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, logger: logger}
}

// CreateBudget sets a budget for a cost centre and financial year
func (s *BudgetService) CreateBudget(ctx context.Context, input CreateBudgetInput) (*finance.Budget, error) {
	if existing, err := s.budgetRepo.FindByCostCentre(ctx, input.TenantID, input.CostCentre, input.FinancialYear); err == nil && existing != nil {
		return nil, shared.NewDomainError("BUDGET_EXISTS", "A budget for this cost centre and year already exists")
	}

	b, err := finance.NewBudget(input.TenantID, input.CareHomeID, input.CostCentre, input.FinancialYear, input.Planned)
	if err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RecordSpend adds actual expenditure against a budget and warns on overspend
func (s *BudgetService) RecordSpend(ctx context.Context, input RecordSpendInput) (*finance.Budget, error) {
	b, err := s.budgetRepo.FindByCostCentre(ctx, input.TenantID, input.CostCentre, input.FinancialYear)
	if err != nil {
		return nil, err
	}
	if err := b.RecordSpend(input.Amount); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if b.Overspent() {
		s.logger.Warn("Budget overspent",
			zap.String("tenant_id", input.TenantID.String()),
			zap.String("cost_centre", b.CostCentre),
			zap.String("financial_year", b.FinancialYear),
			zap.String("variance", b.Variance().String()))
	}
	return b, nil
}

// ReviseBudget replaces the planned amount mid-year
func (s *BudgetService) ReviseBudget(ctx context.Context, tenantID, budgetID uuid.UUID, planned decimal.Decimal) error {
	b, err := s.budgetRepo.FindByIDForTenant(ctx, tenantID, budgetID)
	if err != nil {
		return err
	}
	if err := b.Revise(planned); err != nil {
		return err
	}
	return s.budgetRepo.Save(ctx, b)
}

// YearPositions returns each budget for a year with its variance
func (s *BudgetService) YearPositions(ctx context.Context, tenantID uuid.UUID, financialYear string) ([]BudgetPosition, error) {
	budgets, err := s.budgetRepo.FindByYear(ctx, tenantID, financialYear)
	if err != nil {
		return nil, err
	}
	positions := make([]BudgetPosition, 0, len(budgets))
	for _, b := range budgets {
		positions = append(positions, BudgetPosition{
			Budget:    b,
			Variance:  b.Variance(),
			Overspent: b.Overspent(),
		})
	}
	return positions, nil
}
