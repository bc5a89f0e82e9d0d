package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/domain/shared/valueobject"
)

// FundingSource says who pays for a resident's care
type FundingSource string

const (
	FundingSelf FundingSource = "self"
	FundingLA   FundingSource = "la"  // local authority
	FundingNHS  FundingSource = "nhs" // continuing healthcare
)

// InvoiceStatus represents the invoice lifecycle
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusSent   InvoiceStatus = "sent"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoided InvoiceStatus = "voided"
)

// InvoiceLine is one billed item
type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // GBP
}

// Amount returns the line total
func (l InvoiceLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Round(2)
}

// Invoice bills a resident's care for a period. Amounts are decimal GBP.
type Invoice struct {
	shared.TenantAggregateRoot
	Number        string        `gorm:"type:varchar(30);not null"`
	ResidentID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	FundingSource FundingSource `gorm:"type:varchar(10);not null"`
	PeriodStart   time.Time     `gorm:"type:date;not null"`
	PeriodEnd     time.Time     `gorm:"type:date;not null"`
	Lines         []InvoiceLine `gorm:"serializer:json"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        InvoiceStatus `gorm:"type:varchar(10);not null;default:'draft'"`
	IssuedAt      *time.Time
	DueAt         *time.Time
	VoidReason    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a draft invoice for a billing period
func NewInvoice(tenantID, residentID uuid.UUID, number string, source FundingSource, periodStart, periodEnd time.Time) (*Invoice, error) {
	if number = strings.TrimSpace(number); number == "" || len(number) > 30 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number must be 1-30 characters")
	}
	switch source {
	case FundingSelf, FundingLA, FundingNHS:
	default:
		return nil, shared.NewDomainError("INVALID_FUNDING_SOURCE", "Unknown funding source")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period end must be after its start")
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ResidentID:          residentID,
		FundingSource:       source,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		Total:               decimal.Zero,
		AmountPaid:          decimal.Zero,
		Status:              InvoiceStatusDraft,
	}, nil
}

// AddLine appends a billed item to a draft invoice
func (inv *Invoice) AddLine(description string, quantity, unitPrice decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to a draft invoice")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description is required")
	}
	if !quantity.IsPositive() || unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_LINE", "Quantity must be positive and unit price non-negative")
	}
	line := InvoiceLine{Description: description, Quantity: quantity, UnitPrice: unitPrice}
	inv.Lines = append(inv.Lines, line)
	inv.Total = inv.Total.Add(line.Amount())
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// AddWeeklyFee bills the standard weekly fee for a number of weeks
func (inv *Invoice) AddWeeklyFee(fee valueobject.Money, weeks int) error {
	if weeks < 1 {
		return shared.NewDomainError("INVALID_LINE", "At least one week must be billed")
	}
	return inv.AddLine("Weekly care fee", decimal.NewFromInt(int64(weeks)), fee.Amount())
}

// Issue sends the invoice and starts the payment clock
func (inv *Invoice) Issue(at time.Time, paymentTermsDays int) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft invoice can be issued")
	}
	if len(inv.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "An invoice with no lines cannot be issued")
	}
	if paymentTermsDays < 1 {
		paymentTermsDays = 30
	}
	due := at.AddDate(0, 0, paymentTermsDays)
	inv.Status = InvoiceStatusSent
	inv.IssuedAt = &at
	inv.DueAt = &due
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Outstanding returns the unpaid balance
func (inv *Invoice) Outstanding() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// Overdue reports whether payment is late at the given instant
func (inv *Invoice) Overdue(now time.Time) bool {
	return inv.Status == InvoiceStatusSent && inv.DueAt != nil && now.After(*inv.DueAt)
}

// ApplyPayment allocates an amount against the invoice. Paying more than the
// outstanding balance is rejected.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if inv.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Payments apply only to sent invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.Outstanding()) {
		return shared.ErrOverpayment
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.Outstanding().IsZero() {
		inv.Status = InvoiceStatusPaid
	}
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Void cancels the invoice. Paid invoices cannot be voided.
func (inv *Invoice) Void(reason string) error {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Paid or voided invoices cannot be voided")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A void reason is required")
	}
	inv.Status = InvoiceStatusVoided
	inv.VoidReason = reason
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}
