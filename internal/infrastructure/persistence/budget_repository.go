package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByIDForTenant finds a budget by ID within a tenant
func (r *GormBudgetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Budget, error) {
	var b finance.Budget
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByYear finds a tenant's budgets for one financial year
func (r *GormBudgetRepository) FindByYear(ctx context.Context, tenantID uuid.UUID, financialYear string) ([]finance.Budget, error) {
	var budgets []finance.Budget
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND financial_year = ?", tenantID, financialYear).
		Order("cost_centre ASC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// FindByCostCentre finds the budget for one cost centre and year
func (r *GormBudgetRepository) FindByCostCentre(ctx context.Context, tenantID uuid.UUID, costCentre, financialYear string) (*finance.Budget, error) {
	var b finance.Budget
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cost_centre = ? AND financial_year = ?",
			tenantID, strings.TrimSpace(costCentre), financialYear).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, b *finance.Budget) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ finance.BudgetRepository = (*GormBudgetRepository)(nil)
