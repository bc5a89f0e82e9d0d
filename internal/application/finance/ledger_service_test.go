package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// MockBudgetRepository is a mock implementation of finance.BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Budget, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindByYear(ctx context.Context, tenantID uuid.UUID, financialYear string) ([]finance.Budget, error) {
	args := m.Called(ctx, tenantID, financialYear)
	return args.Get(0).([]finance.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindByCostCentre(ctx context.Context, tenantID uuid.UUID, costCentre, financialYear string) (*finance.Budget, error) {
	args := m.Called(ctx, tenantID, costCentre, financialYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Save(ctx context.Context, b *finance.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func newLedgerService(t *testing.T) (*LedgerService, *MockLedgerRepository, uuid.UUID) {
	t.Helper()
	repo := new(MockLedgerRepository)
	return NewLedgerService(repo, zap.NewNop()), repo, uuid.New()
}

func testAccount(t *testing.T, tenantID uuid.UUID, code, name string, accType finance.AccountType) *finance.LedgerAccount {
	t.Helper()
	a, err := finance.NewLedgerAccount(tenantID, code, name, accType)
	require.NoError(t, err)
	return a
}

func TestPostJournal_MovesBalances(t *testing.T) {
	service, repo, tenantID := newLedgerService(t)
	wages := testAccount(t, tenantID, "7000", "Wages", finance.AccountExpense)
	bank := testAccount(t, tenantID, "1200", "Bank", finance.AccountAsset)

	repo.On("FindAccountByCode", mock.Anything, tenantID, "7000").Return(wages, nil)
	repo.On("FindAccountByCode", mock.Anything, tenantID, "1200").Return(bank, nil)
	repo.On("SaveJournal", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	entries, err := service.PostJournal(context.Background(), PostJournalInput{
		TenantID:    tenantID,
		Description: "March payroll",
		PostedAt:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Lines: []JournalLineInput{
			{AccountCode: "7000", Direction: "debit", Amount: decimal.NewFromInt(18250)},
			{AccountCode: "1200", Direction: "credit", Amount: decimal.NewFromInt(18250)},
		},
	})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].JournalID, entries[1].JournalID)
	assert.Equal(t, "18250", wages.Balance.String())
	assert.Equal(t, "-18250", bank.Balance.String())
}

func TestPostJournal_RejectsUnbalancedLines(t *testing.T) {
	service, repo, tenantID := newLedgerService(t)
	wages := testAccount(t, tenantID, "7000", "Wages", finance.AccountExpense)
	bank := testAccount(t, tenantID, "1200", "Bank", finance.AccountAsset)

	repo.On("FindAccountByCode", mock.Anything, tenantID, "7000").Return(wages, nil)
	repo.On("FindAccountByCode", mock.Anything, tenantID, "1200").Return(bank, nil)

	_, err := service.PostJournal(context.Background(), PostJournalInput{
		TenantID:    tenantID,
		Description: "Fat-fingered journal",
		PostedAt:    time.Now(),
		Lines: []JournalLineInput{
			{AccountCode: "7000", Direction: "debit", Amount: decimal.NewFromInt(1000)},
			{AccountCode: "1200", Direction: "credit", Amount: decimal.NewFromInt(100)},
		},
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNBALANCED_JOURNAL", domainErr.Code)
	repo.AssertNotCalled(t, "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
	assert.True(t, wages.Balance.IsZero())
}

func TestCreateAccount_DuplicateCode(t *testing.T) {
	service, repo, tenantID := newLedgerService(t)
	existing := testAccount(t, tenantID, "1200", "Bank", finance.AccountAsset)

	repo.On("FindAccountByCode", mock.Anything, tenantID, "1200").Return(existing, nil)

	_, err := service.CreateAccount(context.Background(), CreateAccountInput{
		TenantID: tenantID,
		Code:     "1200",
		Name:     "Second bank",
		Type:     "asset",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ACCOUNT_CODE_TAKEN", domainErr.Code)
	repo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
}

func TestDeactivateAccount_NonZeroBalanceRejected(t *testing.T) {
	service, repo, tenantID := newLedgerService(t)
	bank := testAccount(t, tenantID, "1200", "Bank", finance.AccountAsset)
	bank.Balance = decimal.NewFromInt(50)

	repo.On("FindAccountByID", mock.Anything, tenantID, bank.ID).Return(bank, nil)

	err := service.DeactivateAccount(context.Background(), tenantID, bank.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NONZERO_BALANCE", domainErr.Code)
	assert.True(t, bank.Active)
}

func TestTrialBalance_NetsToZero(t *testing.T) {
	service, repo, tenantID := newLedgerService(t)
	debtors := testAccount(t, tenantID, "1100", "Trade debtors", finance.AccountAsset)
	fees := testAccount(t, tenantID, "4000", "Care fee income", finance.AccountIncome)
	debtors.Balance = decimal.NewFromInt(4800)
	fees.Balance = decimal.NewFromInt(4800)

	repo.On("FindAllAccounts", mock.Anything, tenantID).Return([]finance.LedgerAccount{*debtors, *fees}, nil)

	result, err := service.TrialBalance(context.Background(), tenantID)

	require.NoError(t, err)
	assert.True(t, result.Balanced)
	assert.True(t, result.Net.IsZero())
	assert.Len(t, result.Accounts, 2)
}

func TestRecordSpend_FlagsOverspend(t *testing.T) {
	repo := new(MockBudgetRepository)
	service := NewBudgetService(repo, zap.NewNop())
	tenantID := uuid.New()

	b, err := finance.NewBudget(tenantID, uuid.New(), "CATERING", "2025-26", decimal.NewFromInt(24000))
	require.NoError(t, err)
	require.NoError(t, b.RecordSpend(decimal.NewFromInt(23500)))

	repo.On("FindByCostCentre", mock.Anything, tenantID, "CATERING", "2025-26").Return(b, nil)
	repo.On("Save", mock.Anything, b).Return(nil)

	updated, err := service.RecordSpend(context.Background(), RecordSpendInput{
		TenantID:      tenantID,
		CostCentre:    "CATERING",
		FinancialYear: "2025-26",
		Amount:        decimal.NewFromInt(900),
	})

	require.NoError(t, err)
	assert.True(t, updated.Overspent())
	assert.Equal(t, "-400", updated.Variance().String())
}

func TestCreateBudget_DuplicateCostCentre(t *testing.T) {
	repo := new(MockBudgetRepository)
	service := NewBudgetService(repo, zap.NewNop())
	tenantID := uuid.New()

	existing, err := finance.NewBudget(tenantID, uuid.New(), "CATERING", "2025-26", decimal.NewFromInt(24000))
	require.NoError(t, err)
	repo.On("FindByCostCentre", mock.Anything, tenantID, "CATERING", "2025-26").Return(existing, nil)

	_, err = service.CreateBudget(context.Background(), CreateBudgetInput{
		TenantID:      tenantID,
		CareHomeID:    uuid.New(),
		CostCentre:    "CATERING",
		FinancialYear: "2025-26",
		Planned:       decimal.NewFromInt(20000),
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "BUDGET_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestYearPositions_IncludesVariance(t *testing.T) {
	repo := new(MockBudgetRepository)
	service := NewBudgetService(repo, zap.NewNop())
	tenantID := uuid.New()

	catering, err := finance.NewBudget(tenantID, uuid.New(), "CATERING", "2025-26", decimal.NewFromInt(24000))
	require.NoError(t, err)
	require.NoError(t, catering.RecordSpend(decimal.NewFromInt(25000)))
	agency, err := finance.NewBudget(tenantID, uuid.New(), "AGENCY-STAFF", "2025-26", decimal.NewFromInt(60000))
	require.NoError(t, err)
	require.NoError(t, agency.RecordSpend(decimal.NewFromInt(41000)))

	repo.On("FindByYear", mock.Anything, tenantID, "2025-26").Return([]finance.Budget{*catering, *agency}, nil)

	positions, err := service.YearPositions(context.Background(), tenantID, "2025-26")

	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.True(t, positions[0].Overspent)
	assert.Equal(t, "-1000", positions[0].Variance.String())
	assert.False(t, positions[1].Overspent)
	assert.Equal(t, "19000", positions[1].Variance.String())
}
