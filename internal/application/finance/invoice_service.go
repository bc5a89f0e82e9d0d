package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Ledger account codes used by automatic postings from billing
const (
	accountDebtors = "1100" // asset: fees owed by residents and funders
	accountBank    = "1200" // asset: money received
	accountFees    = "4000" // income: care fee revenue
)

// InvoiceService handles billing, payments and their ledger postings
type InvoiceService struct {
	invoiceRepo  finance.InvoiceRepository
	paymentRepo  finance.PaymentRepository
	ledgerRepo   finance.LedgerRepository
	residentRepo resident.ResidentRepository
	logger       *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	paymentRepo finance.PaymentRepository,
	ledgerRepo finance.LedgerRepository,
	residentRepo resident.ResidentRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		ledgerRepo:   ledgerRepo,
		residentRepo: residentRepo,
		logger:       logger,
	}
}

// CreateInvoice drafts an invoice, numbering it from the tenant's sequence
func (s *InvoiceService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*finance.Invoice, error) {
	if _, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID); err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	inv, err := finance.NewInvoice(
		input.TenantID, input.ResidentID, number,
		finance.FundingSource(input.FundingSource),
		input.PeriodStart, input.PeriodEnd,
	)
	if err != nil {
		return nil, err
	}

	if input.WeeklyFeeWeeks > 0 {
		if err := inv.AddLine("Weekly care fee",
			decimal.NewFromInt(int64(input.WeeklyFeeWeeks)), input.WeeklyFee); err != nil {
			return nil, err
		}
	}
	for _, line := range input.Lines {
		if err := inv.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice drafted",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number),
		zap.String("total", inv.Total.String()))
	return inv, nil
}

// IssueInvoice sends an invoice and posts the revenue to the ledger
func (s *InvoiceService) IssueInvoice(ctx context.Context, input IssueInvoiceInput) (*finance.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.Issue(input.IssuedAt, input.PaymentTermsDays); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.postJournal(ctx, input.TenantID, "Invoice "+inv.Number+" issued", input.IssuedAt,
		accountDebtors, accountFees, inv.Total); err != nil {
		s.logger.Error("Failed to post invoice journal",
			zap.String("invoice_id", inv.ID.String()), zap.Error(err))
	}

	s.logger.Info("Invoice issued",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))
	return inv, nil
}

// RecordPayment allocates a payment against an invoice and posts the receipt
func (s *InvoiceService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*finance.Payment, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	payment, err := finance.NewPayment(
		inv, input.Amount,
		finance.PaymentMethod(input.Method),
		input.Reference, input.ReceivedAt, input.RecordedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithPayment(ctx, inv, payment); err != nil {
		return nil, err
	}

	if err := s.postJournal(ctx, input.TenantID, "Payment on invoice "+inv.Number, input.ReceivedAt,
		accountBank, accountDebtors, input.Amount); err != nil {
		s.logger.Error("Failed to post payment journal",
			zap.String("invoice_id", inv.ID.String()), zap.Error(err))
	}

	s.logger.Info("Payment recorded",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("status", string(inv.Status)))
	return payment, nil
}

// VoidInvoice cancels an invoice
func (s *InvoiceService) VoidInvoice(ctx context.Context, input VoidInvoiceInput) error {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return err
	}
	wasIssued := inv.Status == finance.InvoiceStatusSent
	if err := inv.Void(input.Reason); err != nil {
		return err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return err
	}

	// reverse the revenue posting for invoices that had been issued
	if wasIssued {
		if err := s.postJournal(ctx, input.TenantID, "Invoice "+inv.Number+" voided", inv.UpdatedAt,
			accountFees, accountDebtors, inv.Total); err != nil {
			s.logger.Error("Failed to post void journal",
				zap.String("invoice_id", inv.ID.String()), zap.Error(err))
		}
	}
	return nil
}

// GetInvoice retrieves an invoice within a tenant
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListInvoices lists a tenant's invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	return s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
}

// ListOverdue lists sent invoices past their due date
func (s *InvoiceService) ListOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	return s.invoiceRepo.FindOverdue(ctx, tenantID, filter)
}

// ListPayments lists the payments against an invoice
func (s *InvoiceService) ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]finance.Payment, error) {
	return s.paymentRepo.FindByInvoice(ctx, tenantID, invoiceID)
}

// postJournal posts a simple two-sided journal between account codes. Billing
// continues even if the ledger accounts are not set up; the error is surfaced
// to the caller for logging.
func (s *InvoiceService) postJournal(ctx context.Context, tenantID uuid.UUID, description string, at time.Time, debitCode, creditCode string, amount decimal.Decimal) error {
	debit, err := s.ledgerRepo.FindAccountByCode(ctx, tenantID, debitCode)
	if err != nil {
		return err
	}
	credit, err := s.ledgerRepo.FindAccountByCode(ctx, tenantID, creditCode)
	if err != nil {
		return err
	}

	entries, err := finance.PostJournal(tenantID, description, at, []finance.JournalLine{
		{Account: debit, Direction: finance.Debit, Amount: amount},
		{Account: credit, Direction: finance.Credit, Amount: amount},
	})
	if err != nil {
		return err
	}
	return s.ledgerRepo.SaveJournal(ctx, entries, []*finance.LedgerAccount{debit, credit})
}
