package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// PaymentMethod is how the money arrived
type PaymentMethod string

const (
	PaymentMethodBACS   PaymentMethod = "bacs"
	PaymentMethodCheque PaymentMethod = "cheque"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCash   PaymentMethod = "cash"
)

// Payment records money received and its allocation to an invoice
type Payment struct {
	shared.TenantAggregateRoot
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method     PaymentMethod   `gorm:"type:varchar(10);not null"`
	Reference  string          `gorm:"type:varchar(50)"`
	ReceivedAt time.Time       `gorm:"not null"`
	RecordedBy uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment allocates a received amount against an invoice. The invoice's
// paid balance moves with it, so allocation and recording stay consistent.
func NewPayment(inv *Invoice, amount decimal.Decimal, method PaymentMethod, reference string, receivedAt time.Time, recordedBy uuid.UUID) (*Payment, error) {
	switch method {
	case PaymentMethodBACS, PaymentMethodCheque, PaymentMethodCard, PaymentMethodCash:
	default:
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if err := inv.ApplyPayment(amount); err != nil {
		return nil, err
	}

	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(inv.TenantID),
		InvoiceID:           inv.ID,
		Amount:              amount,
		Method:              method,
		Reference:           strings.TrimSpace(reference),
		ReceivedAt:          receivedAt,
		RecordedBy:          recordedBy,
	}, nil
}
