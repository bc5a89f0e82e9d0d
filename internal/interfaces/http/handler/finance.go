package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	financeapp "github.com/writecarenotes/backend/internal/application/finance"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// FinanceHandler handles invoicing, the ledger and budgets
type FinanceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
	ledgerService  *financeapp.LedgerService
	budgetService  *financeapp.BudgetService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(
	invoiceService *financeapp.InvoiceService,
	ledgerService *financeapp.LedgerService,
	budgetService *financeapp.BudgetService,
) *FinanceHandler {
	return &FinanceHandler{
		invoiceService: invoiceService,
		ledgerService:  ledgerService,
		budgetService:  budgetService,
	}
}

// InvoiceLineBody is one billed item
type InvoiceLineBody struct {
	Description string  `json:"description" binding:"required,min=1,max=200"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gt=0"`
}

// CreateInvoiceRequest is the request body for drafting an invoice
type CreateInvoiceRequest struct {
	ResidentID     string            `json:"resident_id" binding:"required,uuid"`
	FundingSource  string            `json:"funding_source" binding:"required,oneof=self la nhs"`
	PeriodStart    time.Time         `json:"period_start" binding:"required"`
	PeriodEnd      time.Time         `json:"period_end" binding:"required"`
	WeeklyFee      float64           `json:"weekly_fee" binding:"omitempty,gt=0"`
	WeeklyFeeWeeks int               `json:"weekly_fee_weeks" binding:"omitempty,min=1,max=53"`
	Lines          []InvoiceLineBody `json:"lines" binding:"omitempty,dive"`
}

// IssueInvoiceRequest is the request body for issuing an invoice
type IssueInvoiceRequest struct {
	IssuedAt         time.Time `json:"issued_at" binding:"required"`
	PaymentTermsDays int       `json:"payment_terms_days" binding:"required,min=1,max=90"`
}

// RecordPaymentRequest is the request body for recording a payment
type RecordPaymentRequest struct {
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Method     string    `json:"method" binding:"required,oneof=bacs cheque card cash"`
	Reference  string    `json:"reference" binding:"max=50"`
	ReceivedAt time.Time `json:"received_at" binding:"required"`
}

// VoidInvoiceRequest is the request body for voiding an invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CreateAccountRequest is the request body for adding a ledger account
type CreateAccountRequest struct {
	Code string `json:"code" binding:"required,min=1,max=10"`
	Name string `json:"name" binding:"required,min=1,max=100"`
	Type string `json:"type" binding:"required,oneof=asset liability income expense"`
}

// JournalLineBody is one side of a manual journal
type JournalLineBody struct {
	AccountCode string  `json:"account_code" binding:"required,min=1,max=10"`
	Direction   string  `json:"direction" binding:"required,oneof=debit credit"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

// PostJournalRequest is the request body for a manual journal posting
type PostJournalRequest struct {
	Description string            `json:"description" binding:"required,min=1,max=200"`
	PostedAt    time.Time         `json:"posted_at" binding:"required"`
	Lines       []JournalLineBody `json:"lines" binding:"required,min=2,dive"`
}

// CreateBudgetRequest is the request body for setting a budget
type CreateBudgetRequest struct {
	CareHomeID    string  `json:"care_home_id" binding:"required,uuid"`
	CostCentre    string  `json:"cost_centre" binding:"required,min=1,max=50"`
	FinancialYear string  `json:"financial_year" binding:"required,len=7"`
	Planned       float64 `json:"planned" binding:"required,gt=0"`
}

// RecordSpendRequest is the request body for recording actual spend
type RecordSpendRequest struct {
	CostCentre    string  `json:"cost_centre" binding:"required,min=1,max=50"`
	FinancialYear string  `json:"financial_year" binding:"required,len=7"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// ReviseBudgetRequest is the request body for revising a budget's plan
type ReviseBudgetRequest struct {
	Planned float64 `json:"planned" binding:"required,gt=0"`
}

// CreateInvoice drafts an invoice for a resident's care period
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	residentID, err := parseUUID(req.ResidentID)
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	lines := make([]financeapp.InvoiceLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, financeapp.InvoiceLineInput{
			Description: line.Description,
			Quantity:    decimal.NewFromFloat(line.Quantity),
			UnitPrice:   decimal.NewFromFloat(line.UnitPrice),
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), financeapp.CreateInvoiceInput{
		TenantID:       tenantID,
		ResidentID:     residentID,
		FundingSource:  req.FundingSource,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		WeeklyFee:      decimal.NewFromFloat(req.WeeklyFee),
		WeeklyFeeWeeks: req.WeeklyFeeWeeks,
		Lines:          lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toInvoiceResponse(invoice))
}

// IssueInvoice issues a draft invoice and posts it to the ledger
func (h *FinanceHandler) IssueInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), financeapp.IssueInvoiceInput{
		TenantID:         tenantID,
		InvoiceID:        invoiceID,
		IssuedAt:         req.IssuedAt,
		PaymentTermsDays: req.PaymentTermsDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// RecordPayment records a payment against an issued invoice
func (h *FinanceHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	payment, err := h.invoiceService.RecordPayment(c.Request.Context(), financeapp.RecordPaymentInput{
		TenantID:   tenantID,
		InvoiceID:  invoiceID,
		Amount:     decimal.NewFromFloat(req.Amount),
		Method:     req.Method,
		Reference:  req.Reference,
		ReceivedAt: req.ReceivedAt,
		RecordedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// VoidInvoice voids an invoice
func (h *FinanceHandler) VoidInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.invoiceService.VoidInvoice(c.Request.Context(), financeapp.VoidInvoiceInput{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		Reason:    req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetInvoice returns a single invoice
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// ListInvoices returns invoices, optionally filtered by status or funding
// source
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := buildFilter(req)
	filter.Filters = map[string]interface{}{}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if source := c.Query("funding_source"); source != "" {
		filter.Filters["funding_source"] = source
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, toInvoiceResponse(&invoices[i]))
	}
	h.Success(c, responses)
}

// ListOverdue returns issued invoices past their due date
func (h *FinanceHandler) ListOverdue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoices, err := h.invoiceService.ListOverdue(c.Request.Context(), tenantID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, toInvoiceResponse(&invoices[i]))
	}
	h.Success(c, responses)
}

// ListPayments returns the payments recorded against an invoice
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.invoiceService.ListPayments(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, toPaymentResponse(&payments[i]))
	}
	h.Success(c, responses)
}

// CreateAccount adds a ledger account
func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), financeapp.CreateAccountInput{
		TenantID: tenantID,
		Code:     req.Code,
		Name:     req.Name,
		Type:     req.Type,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAccountResponse(account))
}

// ListAccounts returns the chart of accounts
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	accounts, err := h.ledgerService.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]LedgerAccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, toAccountResponse(&accounts[i]))
	}
	h.Success(c, responses)
}

// DeactivateAccount deactivates a ledger account
func (h *FinanceHandler) DeactivateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.ledgerService.DeactivateAccount(c.Request.Context(), tenantID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PostJournal posts a balanced manual journal
func (h *FinanceHandler) PostJournal(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PostJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	lines := make([]financeapp.JournalLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, financeapp.JournalLineInput{
			AccountCode: line.AccountCode,
			Direction:   line.Direction,
			Amount:      decimal.NewFromFloat(line.Amount),
		})
	}

	entries, err := h.ledgerService.PostJournal(c.Request.Context(), financeapp.PostJournalInput{
		TenantID:    tenantID,
		Description: req.Description,
		PostedAt:    req.PostedAt,
		Lines:       lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]JournalEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toJournalEntryResponse(entry))
	}
	h.Created(c, responses)
}

// AccountEntries returns the journal entries posted to an account
func (h *FinanceHandler) AccountEntries(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := buildFilter(req)
	if direction := c.Query("direction"); direction != "" {
		filter.Filters = map[string]interface{}{"direction": direction}
	}

	entries, err := h.ledgerService.AccountEntries(c.Request.Context(), tenantID, accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]JournalEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toJournalEntryResponse(&entries[i]))
	}
	h.Success(c, responses)
}

// TrialBalance returns the netted ledger position
func (h *FinanceHandler) TrialBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.ledgerService.TrialBalance(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	accounts := make([]LedgerAccountResponse, 0, len(result.Accounts))
	for i := range result.Accounts {
		accounts = append(accounts, toAccountResponse(&result.Accounts[i]))
	}

	h.Success(c, TrialBalanceResponse{
		Accounts: accounts,
		Net:      result.Net.String(),
		Balanced: result.Balanced,
	})
}

// CreateBudget sets a cost centre budget for a financial year
func (h *FinanceHandler) CreateBudget(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	careHomeID, err := parseUUID(req.CareHomeID)
	if err != nil {
		h.BadRequest(c, "Invalid care home ID")
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), financeapp.CreateBudgetInput{
		TenantID:      tenantID,
		CareHomeID:    careHomeID,
		CostCentre:    req.CostCentre,
		FinancialYear: req.FinancialYear,
		Planned:       decimal.NewFromFloat(req.Planned),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toBudgetResponse(budget))
}

// RecordSpend records actual spend against a budget
func (h *FinanceHandler) RecordSpend(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	budget, err := h.budgetService.RecordSpend(c.Request.Context(), financeapp.RecordSpendInput{
		TenantID:      tenantID,
		CostCentre:    req.CostCentre,
		FinancialYear: req.FinancialYear,
		Amount:        decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBudgetResponse(budget))
}

// ReviseBudget replaces a budget's planned amount
func (h *FinanceHandler) ReviseBudget(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	budgetID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req ReviseBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.budgetService.ReviseBudget(c.Request.Context(), tenantID, budgetID, decimal.NewFromFloat(req.Planned))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// YearPositions returns every budget's variance for a financial year
func (h *FinanceHandler) YearPositions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	financialYear := c.Query("financial_year")
	if financialYear == "" {
		h.BadRequest(c, "Missing financial_year parameter")
		return
	}

	positions, err := h.budgetService.YearPositions(c.Request.Context(), tenantID, financialYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]BudgetPositionResponse, 0, len(positions))
	for i := range positions {
		responses = append(responses, BudgetPositionResponse{
			Budget:    toBudgetResponse(&positions[i].Budget),
			Variance:  positions[i].Variance.String(),
			Overspent: positions[i].Overspent,
		})
	}
	h.Success(c, responses)
}
