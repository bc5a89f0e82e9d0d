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

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindAccountByID finds a ledger account by ID within a tenant
func (r *GormLedgerRepository) FindAccountByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerAccount, error) {
	var account finance.LedgerAccount
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAccountByCode finds a ledger account by code within a tenant
func (r *GormLedgerRepository) FindAccountByCode(ctx context.Context, tenantID uuid.UUID, code string) (*finance.LedgerAccount, error) {
	var account finance.LedgerAccount
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.TrimSpace(code)).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAllAccounts finds a tenant's chart of accounts
func (r *GormLedgerRepository) FindAllAccounts(ctx context.Context, tenantID uuid.UUID) ([]finance.LedgerAccount, error) {
	var accounts []finance.LedgerAccount
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("code ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccount creates or updates a ledger account
func (r *GormLedgerRepository) SaveAccount(ctx context.Context, a *finance.LedgerAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// SaveJournal persists the entries and updated account balances in one
// transaction. Each account write carries a version check so a concurrent
// posting rolls the whole journal back.
func (r *GormLedgerRepository) SaveJournal(ctx context.Context, entries []*finance.JournalEntry, accounts []*finance.LedgerAccount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		for _, account := range accounts {
			result := tx.Model(account).
				Where("id = ? AND version = ?", account.ID, account.Version-1).
				Updates(account)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "A ledger account was modified by another transaction")
			}
		}
		return nil
	})
}

// FindEntriesByAccount finds journal entries posted to an account
func (r *GormLedgerRepository) FindEntriesByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.JournalEntry, error) {
	var entries []finance.JournalEntry
	query := r.db.WithContext(ctx).Model(&finance.JournalEntry{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID)
	if direction, ok := filter.Filters["direction"]; ok {
		query = query.Where("direction = ?", direction)
	}
	query = applyPagination(query, filter, "posted_at DESC")
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ finance.LedgerRepository = (*GormLedgerRepository)(nil)
