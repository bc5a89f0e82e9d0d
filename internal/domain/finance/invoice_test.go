package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/domain/shared/valueobject"
)

var (
	periodStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)
)

func newSentInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-2026-0042", FundingSelf, periodStart, periodEnd)
	require.NoError(t, err)
	fee, err := valueobject.NewMoneyGBPFromString("1250.00")
	require.NoError(t, err)
	require.NoError(t, inv.AddWeeklyFee(fee, 4))
	require.NoError(t, inv.Issue(periodEnd, 30))
	return inv
}

func TestNewInvoice_Validation(t *testing.T) {
	tenantID, residentID := uuid.New(), uuid.New()

	_, err := NewInvoice(tenantID, residentID, "", FundingSelf, periodStart, periodEnd)
	assert.Error(t, err, "empty number")

	_, err = NewInvoice(tenantID, residentID, "INV-1", FundingSource("insurer"), periodStart, periodEnd)
	assert.Error(t, err, "unknown funding source")

	_, err = NewInvoice(tenantID, residentID, "INV-1", FundingLA, periodEnd, periodStart)
	assert.Error(t, err, "inverted period")
}

func TestInvoice_Lines(t *testing.T) {
	inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-1", FundingSelf, periodStart, periodEnd)
	require.NoError(t, err)

	require.NoError(t, inv.AddLine("Hairdressing", decimal.NewFromInt(2), decimal.RequireFromString("15.50")))
	require.NoError(t, inv.AddLine("Chiropody", decimal.NewFromInt(1), decimal.RequireFromString("28.00")))
	assert.Equal(t, "59", inv.Total.String())

	assert.Error(t, inv.AddLine("", decimal.NewFromInt(1), decimal.NewFromInt(1)))
	assert.Error(t, inv.AddLine("Negative", decimal.NewFromInt(1), decimal.NewFromInt(-1)))
}

func TestInvoice_IssueRequiresLines(t *testing.T) {
	inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-1", FundingSelf, periodStart, periodEnd)
	require.NoError(t, err)
	assert.Error(t, inv.Issue(periodEnd, 30))
}

func TestInvoice_PaymentLifecycle(t *testing.T) {
	inv := newSentInvoice(t)
	assert.Equal(t, "5000", inv.Total.String())
	assert.Equal(t, "5000", inv.Outstanding().String())

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(2000)))
	assert.Equal(t, InvoiceStatusSent, inv.Status)
	assert.Equal(t, "3000", inv.Outstanding().String())

	// cannot pay more than is outstanding
	err := inv.ApplyPayment(decimal.NewFromInt(3001))
	assert.ErrorIs(t, err, shared.ErrOverpayment)

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(3000)))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Outstanding().IsZero())

	// a settled invoice takes no further payments
	assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(1)))
}

func TestInvoice_Overdue(t *testing.T) {
	inv := newSentInvoice(t)
	require.NotNil(t, inv.DueAt)

	assert.False(t, inv.Overdue(inv.DueAt.AddDate(0, 0, -1)))
	assert.True(t, inv.Overdue(inv.DueAt.AddDate(0, 0, 1)))
}

func TestInvoice_Void(t *testing.T) {
	inv := newSentInvoice(t)

	assert.Error(t, inv.Void(""), "reason required")
	require.NoError(t, inv.Void("duplicate of INV-2026-0041"))
	assert.Equal(t, InvoiceStatusVoided, inv.Status)
	assert.Error(t, inv.Void("again"))

	paid := newSentInvoice(t)
	require.NoError(t, paid.ApplyPayment(paid.Total))
	assert.Error(t, paid.Void("too late"))
}

func TestNewPayment(t *testing.T) {
	inv := newSentInvoice(t)
	by := uuid.New()

	p, err := NewPayment(inv, decimal.NewFromInt(5000), PaymentMethodBACS, "LA-REMIT-99", periodEnd, by)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, p.InvoiceID)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	_, err = NewPayment(inv, decimal.NewFromInt(1), PaymentMethodBACS, "", periodEnd, by)
	assert.Error(t, err, "invoice already settled")
}

func TestNewPayment_UnknownMethod(t *testing.T) {
	inv := newSentInvoice(t)
	_, err := NewPayment(inv, decimal.NewFromInt(10), PaymentMethod("crypto"), "", periodEnd, uuid.New())
	assert.Error(t, err)
	assert.Equal(t, "5000", inv.Outstanding().String(), "rejected method leaves the invoice untouched")
}
