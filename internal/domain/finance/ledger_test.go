package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartOfAccounts(t *testing.T, tenantID uuid.UUID) (bank, fees, wages *LedgerAccount) {
	t.Helper()
	var err error
	bank, err = NewLedgerAccount(tenantID, "1000", "Bank", AccountAsset)
	require.NoError(t, err)
	fees, err = NewLedgerAccount(tenantID, "4000", "Care fees", AccountIncome)
	require.NoError(t, err)
	wages, err = NewLedgerAccount(tenantID, "5000", "Wages", AccountExpense)
	require.NoError(t, err)
	return bank, fees, wages
}

func TestNewLedgerAccount_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewLedgerAccount(tenantID, "", "Bank", AccountAsset)
	assert.Error(t, err)

	_, err = NewLedgerAccount(tenantID, "1000", "", AccountAsset)
	assert.Error(t, err)

	_, err = NewLedgerAccount(tenantID, "1000", "Bank", AccountType("equity"))
	assert.Error(t, err)
}

func TestPostJournal_MovesBalances(t *testing.T) {
	tenantID := uuid.New()
	bank, fees, _ := chartOfAccounts(t, tenantID)

	entries, err := PostJournal(tenantID, "care fees received", time.Now(), []JournalLine{
		{Account: bank, Direction: Debit, Amount: decimal.NewFromInt(5000)},
		{Account: fees, Direction: Credit, Amount: decimal.NewFromInt(5000)},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].JournalID, entries[1].JournalID)

	assert.Equal(t, "5000", bank.Balance.String())
	assert.Equal(t, "5000", fees.Balance.String())
}

func TestPostJournal_RejectsUnbalanced(t *testing.T) {
	tenantID := uuid.New()
	bank, fees, _ := chartOfAccounts(t, tenantID)

	_, err := PostJournal(tenantID, "typo", time.Now(), []JournalLine{
		{Account: bank, Direction: Debit, Amount: decimal.NewFromInt(5000)},
		{Account: fees, Direction: Credit, Amount: decimal.NewFromInt(500)},
	})
	assert.Error(t, err)
	assert.True(t, bank.Balance.IsZero(), "failed journal leaves balances untouched")

	_, err = PostJournal(tenantID, "single-sided", time.Now(), []JournalLine{
		{Account: bank, Direction: Debit, Amount: decimal.NewFromInt(100)},
	})
	assert.Error(t, err)
}

func TestPostJournal_RejectsInactiveAccount(t *testing.T) {
	tenantID := uuid.New()
	bank, fees, _ := chartOfAccounts(t, tenantID)
	require.NoError(t, fees.Deactivate())

	_, err := PostJournal(tenantID, "closed account", time.Now(), []JournalLine{
		{Account: bank, Direction: Debit, Amount: decimal.NewFromInt(100)},
		{Account: fees, Direction: Credit, Amount: decimal.NewFromInt(100)},
	})
	assert.Error(t, err)
}

func TestTrialBalance_NetsToZero(t *testing.T) {
	tenantID := uuid.New()
	bank, fees, wages := chartOfAccounts(t, tenantID)

	_, err := PostJournal(tenantID, "fees", time.Now(), []JournalLine{
		{Account: bank, Direction: Debit, Amount: decimal.NewFromInt(9000)},
		{Account: fees, Direction: Credit, Amount: decimal.NewFromInt(9000)},
	})
	require.NoError(t, err)

	_, err = PostJournal(tenantID, "payroll", time.Now(), []JournalLine{
		{Account: wages, Direction: Debit, Amount: decimal.NewFromInt(6200)},
		{Account: bank, Direction: Credit, Amount: decimal.NewFromInt(6200)},
	})
	require.NoError(t, err)

	total := TrialBalance([]LedgerAccount{*bank, *fees, *wages})
	assert.True(t, total.IsZero(), "trial balance nets to zero, got %s", total)
}

func TestLedgerAccount_DeactivateRequiresZeroBalance(t *testing.T) {
	tenantID := uuid.New()
	bank, fees, _ := chartOfAccounts(t, tenantID)

	_, err := PostJournal(tenantID, "fees", time.Now(), []JournalLine{
		{Account: bank, Direction: Debit, Amount: decimal.NewFromInt(100)},
		{Account: fees, Direction: Credit, Amount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)

	assert.Error(t, bank.Deactivate())
}

func TestBudget_Variance(t *testing.T) {
	b, err := NewBudget(uuid.New(), uuid.New(), "catering", "2025-26", decimal.NewFromInt(120000))
	require.NoError(t, err)

	require.NoError(t, b.RecordSpend(decimal.RequireFromString("45250.75")))
	assert.Equal(t, "74749.25", b.Variance().String())
	assert.False(t, b.Overspent())

	require.NoError(t, b.RecordSpend(decimal.NewFromInt(80000)))
	assert.True(t, b.Overspent())
	assert.True(t, b.Variance().IsNegative())

	assert.Error(t, b.RecordSpend(decimal.Zero))
}

func TestNewBudget_Validation(t *testing.T) {
	_, err := NewBudget(uuid.New(), uuid.New(), "", "2025-26", decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewBudget(uuid.New(), uuid.New(), "catering", "25-26", decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewBudget(uuid.New(), uuid.New(), "catering", "2025-26", decimal.NewFromInt(-1))
	assert.Error(t, err)
}
