package handler

import (
	"time"

	"github.com/writecarenotes/backend/internal/domain/finance"
)

// InvoiceLineResponse is the API shape of one billed item
type InvoiceLineResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// InvoiceResponse is the API shape of an invoice
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	ResidentID    string                `json:"resident_id"`
	FundingSource string                `json:"funding_source"`
	PeriodStart   time.Time             `json:"period_start"`
	PeriodEnd     time.Time             `json:"period_end"`
	Lines         []InvoiceLineResponse `json:"lines"`
	Total         string                `json:"total"`
	AmountPaid    string                `json:"amount_paid"`
	Status        string                `json:"status"`
	IssuedAt      *time.Time            `json:"issued_at,omitempty"`
	DueAt         *time.Time            `json:"due_at,omitempty"`
	VoidReason    string                `json:"void_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// PaymentResponse is the API shape of a payment
type PaymentResponse struct {
	ID         string    `json:"id"`
	InvoiceID  string    `json:"invoice_id"`
	Amount     string    `json:"amount"`
	Method     string    `json:"method"`
	Reference  string    `json:"reference,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
	RecordedBy string    `json:"recorded_by"`
}

// LedgerAccountResponse is the API shape of a ledger account
type LedgerAccountResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
	Active  bool   `json:"active"`
}

// JournalEntryResponse is the API shape of a journal entry
type JournalEntryResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	JournalID   string    `json:"journal_id"`
	Direction   string    `json:"direction"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
}

// TrialBalanceResponse is the netted ledger position
type TrialBalanceResponse struct {
	Accounts []LedgerAccountResponse `json:"accounts"`
	Net      string                  `json:"net"`
	Balanced bool                    `json:"balanced"`
}

// BudgetResponse is the API shape of a budget
type BudgetResponse struct {
	ID            string `json:"id"`
	CareHomeID    string `json:"care_home_id,omitempty"`
	CostCentre    string `json:"cost_centre"`
	FinancialYear string `json:"financial_year"`
	Planned       string `json:"planned"`
	Spent         string `json:"spent"`
}

// BudgetPositionResponse pairs a budget with its derived variance
type BudgetPositionResponse struct {
	Budget    BudgetResponse `json:"budget"`
	Variance  string         `json:"variance"`
	Overspent bool           `json:"overspent"`
}

func toInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		lines = append(lines, InvoiceLineResponse{
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice.String(),
		})
	}
	return InvoiceResponse{
		ID:            inv.ID.String(),
		Number:        inv.Number,
		ResidentID:    inv.ResidentID.String(),
		FundingSource: string(inv.FundingSource),
		PeriodStart:   inv.PeriodStart,
		PeriodEnd:     inv.PeriodEnd,
		Lines:         lines,
		Total:         inv.Total.String(),
		AmountPaid:    inv.AmountPaid.String(),
		Status:        string(inv.Status),
		IssuedAt:      inv.IssuedAt,
		DueAt:         inv.DueAt,
		VoidReason:    inv.VoidReason,
		CreatedAt:     inv.CreatedAt,
	}
}

func toPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID.String(),
		InvoiceID:  p.InvoiceID.String(),
		Amount:     p.Amount.String(),
		Method:     string(p.Method),
		Reference:  p.Reference,
		ReceivedAt: p.ReceivedAt,
		RecordedBy: p.RecordedBy.String(),
	}
}

func toAccountResponse(a *finance.LedgerAccount) LedgerAccountResponse {
	return LedgerAccountResponse{
		ID:      a.ID.String(),
		Code:    a.Code,
		Name:    a.Name,
		Type:    string(a.Type),
		Balance: a.Balance.String(),
		Active:  a.Active,
	}
}

func toJournalEntryResponse(e *finance.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:          e.ID.String(),
		AccountID:   e.AccountID.String(),
		JournalID:   e.JournalID.String(),
		Direction:   string(e.Direction),
		Amount:      e.Amount.String(),
		Description: e.Description,
		PostedAt:    e.PostedAt,
	}
}

func toBudgetResponse(b *finance.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:            b.ID.String(),
		CostCentre:    b.CostCentre,
		FinancialYear: b.FinancialYear,
		Planned:       b.Planned.String(),
		Spent:         b.Spent.String(),
	}
	if b.CareHomeID != nil {
		resp.CareHomeID = b.CareHomeID.String()
	}
	return resp
}
