package finance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// LedgerService handles the chart of accounts and manual journals
type LedgerService struct {
	ledgerRepo finance.LedgerRepository
	logger     *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo finance.LedgerRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, logger: logger}
}

// CreateAccount adds an account to the tenant's chart of accounts
func (s *LedgerService) CreateAccount(ctx context.Context, input CreateAccountInput) (*finance.LedgerAccount, error) {
	if existing, err := s.ledgerRepo.FindAccountByCode(ctx, input.TenantID, input.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ACCOUNT_CODE_TAKEN", "An account with this code already exists")
	}

	account, err := finance.NewLedgerAccount(input.TenantID, input.Code, input.Name, finance.AccountType(input.Type))
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// PostJournal posts a balanced manual journal
func (s *LedgerService) PostJournal(ctx context.Context, input PostJournalInput) ([]*finance.JournalEntry, error) {
	lines := make([]finance.JournalLine, 0, len(input.Lines))
	accounts := make([]*finance.LedgerAccount, 0, len(input.Lines))
	seen := make(map[string]*finance.LedgerAccount)

	for _, l := range input.Lines {
		account, ok := seen[l.AccountCode]
		if !ok {
			var err error
			account, err = s.ledgerRepo.FindAccountByCode(ctx, input.TenantID, l.AccountCode)
			if err != nil {
				return nil, err
			}
			seen[l.AccountCode] = account
			accounts = append(accounts, account)
		}
		lines = append(lines, finance.JournalLine{
			Account:   account,
			Direction: finance.EntryDirection(l.Direction),
			Amount:    l.Amount,
		})
	}

	entries, err := finance.PostJournal(input.TenantID, input.Description, input.PostedAt, lines)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.SaveJournal(ctx, entries, accounts); err != nil {
		return nil, err
	}

	s.logger.Info("Journal posted",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("description", input.Description),
		zap.Int("lines", len(entries)))
	return entries, nil
}

// DeactivateAccount closes a zero-balance account to postings
func (s *LedgerService) DeactivateAccount(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.ledgerRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if err := account.Deactivate(); err != nil {
		return err
	}
	return s.ledgerRepo.SaveAccount(ctx, account)
}

// ListAccounts returns the tenant's chart of accounts
func (s *LedgerService) ListAccounts(ctx context.Context, tenantID uuid.UUID) ([]finance.LedgerAccount, error) {
	return s.ledgerRepo.FindAllAccounts(ctx, tenantID)
}

// AccountEntries lists the postings against one account
func (s *LedgerService) AccountEntries(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.JournalEntry, error) {
	return s.ledgerRepo.FindEntriesByAccount(ctx, tenantID, accountID, filter)
}

// TrialBalance nets all account balances. A consistent ledger nets to zero.
func (s *LedgerService) TrialBalance(ctx context.Context, tenantID uuid.UUID) (*TrialBalanceResult, error) {
	accounts, err := s.ledgerRepo.FindAllAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	net := finance.TrialBalance(accounts)
	return &TrialBalanceResult{
		Accounts: accounts,
		Net:      net,
		Balanced: net.IsZero(),
	}, nil
}
