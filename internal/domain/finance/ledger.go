package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// AccountType classifies a ledger account in the chart of accounts
type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountIncome    AccountType = "income"
	AccountExpense   AccountType = "expense"
)

// LedgerAccount is one account in a tenant's chart of accounts. Balance is
// signed: debits increase assets and expenses, credits increase liabilities
// and income.
type LedgerAccount struct {
	shared.TenantAggregateRoot
	Code    string          `gorm:"type:varchar(10);not null"`
	Name    string          `gorm:"type:varchar(100);not null"`
	Type    AccountType     `gorm:"type:varchar(10);not null"`
	Balance decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Active  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LedgerAccount) TableName() string {
	return "ledger_accounts"
}

// NewLedgerAccount creates an account with a zero balance
func NewLedgerAccount(tenantID uuid.UUID, code, name string, accType AccountType) (*LedgerAccount, error) {
	if code = strings.TrimSpace(code); code == "" || len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code must be 1-10 characters")
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name is required")
	}
	switch accType {
	case AccountAsset, AccountLiability, AccountIncome, AccountExpense:
	default:
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Unknown account type")
	}

	return &LedgerAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                accType,
		Balance:             decimal.Zero,
		Active:              true,
	}, nil
}

// Deactivate closes the account to further postings
func (a *LedgerAccount) Deactivate() error {
	if !a.Balance.IsZero() {
		return shared.NewDomainError("NONZERO_BALANCE", "Only a zero-balance account can be deactivated")
	}
	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// EntryDirection marks a journal line as debit or credit
type EntryDirection string

const (
	Debit  EntryDirection = "debit"
	Credit EntryDirection = "credit"
)

// JournalEntry is one posted line. Entries come in balanced pairs (or larger
// balanced sets) created through PostJournal.
type JournalEntry struct {
	shared.TenantAggregateRoot
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	JournalID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction   EntryDirection  `gorm:"type:varchar(6);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Description string          `gorm:"type:varchar(200)"`
	PostedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalLine describes one side of a posting before it is applied
type JournalLine struct {
	Account   *LedgerAccount
	Direction EntryDirection
	Amount    decimal.Decimal
}

// PostJournal applies a balanced set of lines to their accounts and returns
// the entries to persist. Debits must equal credits or nothing is applied.
func PostJournal(tenantID uuid.UUID, description string, postedAt time.Time, lines []JournalLine) ([]*JournalEntry, error) {
	if len(lines) < 2 {
		return nil, shared.NewDomainError("UNBALANCED_JOURNAL", "A journal needs at least two lines")
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if !l.Amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Journal amounts must be positive")
		}
		if l.Account == nil || !l.Account.Active {
			return nil, shared.NewDomainError("INACTIVE_ACCOUNT", "Journals can only post to active accounts")
		}
		switch l.Direction {
		case Debit:
			debits = debits.Add(l.Amount)
		case Credit:
			credits = credits.Add(l.Amount)
		default:
			return nil, shared.NewDomainError("INVALID_DIRECTION", "Journal lines must be debit or credit")
		}
	}
	if !debits.Equal(credits) {
		return nil, shared.NewDomainError("UNBALANCED_JOURNAL", "Journal debits must equal credits")
	}

	journalID := uuid.New()
	entries := make([]*JournalEntry, 0, len(lines))
	for _, l := range lines {
		l.Account.apply(l.Direction, l.Amount)
		entries = append(entries, &JournalEntry{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			AccountID:           l.Account.ID,
			JournalID:           journalID,
			Direction:           l.Direction,
			Amount:              l.Amount,
			Description:         description,
			PostedAt:            postedAt,
		})
	}
	return entries, nil
}

// apply moves the running balance. Debit-normal accounts (asset, expense)
// increase on debit; credit-normal accounts increase on credit.
func (a *LedgerAccount) apply(dir EntryDirection, amount decimal.Decimal) {
	debitNormal := a.Type == AccountAsset || a.Type == AccountExpense
	if (dir == Debit) == debitNormal {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// TrialBalance nets every account's balance with debit-normal balances
// positive and credit-normal balances negative. A consistent ledger nets to
// zero.
func TrialBalance(accounts []LedgerAccount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		switch a.Type {
		case AccountAsset, AccountExpense:
			total = total.Add(a.Balance)
		case AccountLiability, AccountIncome:
			total = total.Sub(a.Balance)
		}
	}
	return total
}
