package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, inv *Invoice) error
	SaveWithLock(ctx context.Context, inv *Invoice) error
	// SaveWithPayment persists the invoice and payment in one transaction
	SaveWithPayment(ctx context.Context, inv *Invoice, payment *Payment) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
}

// LedgerRepository defines the interface for ledger persistence
type LedgerRepository interface {
	FindAccountByID(ctx context.Context, tenantID, id uuid.UUID) (*LedgerAccount, error)
	FindAccountByCode(ctx context.Context, tenantID uuid.UUID, code string) (*LedgerAccount, error)
	FindAllAccounts(ctx context.Context, tenantID uuid.UUID) ([]LedgerAccount, error)
	SaveAccount(ctx context.Context, a *LedgerAccount) error
	// SaveJournal persists the entries and updated account balances in one
	// transaction.
	SaveJournal(ctx context.Context, entries []*JournalEntry, accounts []*LedgerAccount) error
	FindEntriesByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]JournalEntry, error)
}

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Budget, error)
	FindByYear(ctx context.Context, tenantID uuid.UUID, financialYear string) ([]Budget, error)
	FindByCostCentre(ctx context.Context, tenantID uuid.UUID, costCentre, financialYear string) (*Budget, error)
	Save(ctx context.Context, b *Budget) error
}
