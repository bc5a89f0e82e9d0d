package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/writecarenotes/backend/internal/domain/finance"
)

// CreateInvoiceInput contains the input for drafting an invoice
type CreateInvoiceInput struct {
	TenantID      uuid.UUID
	ResidentID    uuid.UUID
	FundingSource string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	// WeeklyFee bills the standard weekly fee for WeeklyFeeWeeks weeks when
	// positive.
	WeeklyFee      decimal.Decimal
	WeeklyFeeWeeks int
	Lines          []InvoiceLineInput
}

// InvoiceLineInput is one billed item
type InvoiceLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// IssueInvoiceInput contains the input for issuing an invoice
type IssueInvoiceInput struct {
	TenantID         uuid.UUID
	InvoiceID        uuid.UUID
	IssuedAt         time.Time
	PaymentTermsDays int
}

// RecordPaymentInput contains the input for recording a payment
type RecordPaymentInput struct {
	TenantID   uuid.UUID
	InvoiceID  uuid.UUID
	Amount     decimal.Decimal
	Method     string
	Reference  string
	ReceivedAt time.Time
	RecordedBy uuid.UUID
}

// VoidInvoiceInput contains the input for voiding an invoice
type VoidInvoiceInput struct {
	TenantID  uuid.UUID
	InvoiceID uuid.UUID
	Reason    string
}

// CreateAccountInput contains the input for adding a ledger account
type CreateAccountInput struct {
	TenantID uuid.UUID
	Code     string
	Name     string
	Type     string
}

// JournalLineInput is one side of a manual journal
type JournalLineInput struct {
	AccountCode string
	Direction   string
	Amount      decimal.Decimal
}

// PostJournalInput contains the input for a manual journal posting
type PostJournalInput struct {
	TenantID    uuid.UUID
	Description string
	PostedAt    time.Time
	Lines       []JournalLineInput
}

// TrialBalanceResult is the netted ledger position
type TrialBalanceResult struct {
	Accounts []finance.LedgerAccount
	Net      decimal.Decimal
	Balanced bool
}

// CreateBudgetInput contains the input for setting a budget
type CreateBudgetInput struct {
	TenantID      uuid.UUID
	CareHomeID    uuid.UUID
	CostCentre    string
	FinancialYear string
	Planned       decimal.Decimal
}

// RecordSpendInput contains the input for recording actual spend
type RecordSpendInput struct {
	TenantID      uuid.UUID
	CostCentre    string
	FinancialYear string
	Amount        decimal.Decimal
}

// BudgetPosition is a budget with its derived variance
type BudgetPosition struct {
	Budget    finance.Budget
	Variance  decimal.Decimal
	Overspent bool
}
