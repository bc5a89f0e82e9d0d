package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	var inv finance.Invoice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds an invoice by its number within a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*finance.Invoice, error) {
	var inv finance.Invoice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByResident finds invoices raised for a resident
func (r *GormInvoiceRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	var invoices []finance.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.Invoice{}).
			Where("tenant_id = ? AND resident_id = ?", tenantID, residentID),
		filter,
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAllForTenant finds all invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	var invoices []finance.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.Invoice{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdue finds issued invoices past their due date and not settled
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	var invoices []finance.Invoice
	query := r.db.WithContext(ctx).Model(&finance.Invoice{}).
		Where("tenant_id = ? AND status = ? AND due_at < ?",
			tenantID, finance.InvoiceStatusSent, time.Now())
	query = applyPagination(query, filter, "due_at ASC")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// NextNumber allocates the next invoice number for the tenant, sequential
// within the calendar year. The upsert keeps concurrent allocations from
// colliding.
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO invoice_sequences (tenant_id, year, last_value)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, year)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`, tenantID, year).Scan(&value).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d", year, value), nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// SaveWithLock saves an invoice with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(inv).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(inv)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The invoice has been modified by another transaction")
	}
	return nil
}

// SaveWithPayment persists the invoice and payment in one transaction,
// guarding the invoice with a version check
func (r *GormInvoiceRepository) SaveWithPayment(ctx context.Context, inv *finance.Invoice, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(inv).
			Where("id = ? AND version = ?", inv.ID, inv.Version-1).
			Updates(inv)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The invoice has been modified by another transaction")
		}
		return tx.Save(payment).Error
	})
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "funding_source":
			query = query.Where("funding_source = ?", value)
		}
	}
	return applyPagination(query, filter, "created_at DESC")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
