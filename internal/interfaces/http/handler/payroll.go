package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	payrollapp "github.com/writecarenotes/backend/internal/application/payroll"
	"github.com/writecarenotes/backend/internal/domain/payroll"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// PayrollHandler handles pay run calculation, approval and payslips
type PayrollHandler struct {
	BaseHandler
	payRunService *payrollapp.PayRunService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payRunService *payrollapp.PayRunService) *PayrollHandler {
	return &PayrollHandler{payRunService: payRunService}
}

// RunPayrollRequest is the request body for calculating a pay run
type RunPayrollRequest struct {
	TaxYear      string `json:"tax_year" binding:"required,len=7"`
	PeriodNumber int    `json:"period_number" binding:"required,min=1,max=52"`
	Frequency    string `json:"frequency" binding:"required,oneof=monthly weekly"`
}

// CompleteRunRequest is the request body for completing a run
type CompleteRunRequest struct {
	CompletedAt time.Time `json:"completed_at" binding:"required"`
}

// PayRunResponse is the API shape of a pay run
type PayRunResponse struct {
	ID            string     `json:"id"`
	TaxYear       string     `json:"tax_year"`
	PeriodNumber  int        `json:"period_number"`
	Frequency     string     `json:"frequency"`
	Status        string     `json:"status"`
	EmployeeCount int        `json:"employee_count"`
	TotalGross    string     `json:"total_gross"`
	TotalNet      string     `json:"total_net"`
	TotalCost     string     `json:"total_cost"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PayrollRecordResponse is the API shape of one employee's payslip
type PayrollRecordResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	TaxYear         string     `json:"tax_year"`
	PeriodNumber    int        `json:"period_number"`
	Frequency       string     `json:"frequency"`
	GrossPay        string     `json:"gross_pay"`
	IncomeTax       string     `json:"income_tax"`
	EmployeeNI      string     `json:"employee_ni"`
	EmployerNI      string     `json:"employer_ni"`
	EmployeePension string     `json:"employee_pension"`
	EmployerPension string     `json:"employer_pension"`
	StudentLoan     string     `json:"student_loan"`
	NetPay          string     `json:"net_pay"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}

// SkippedEmployeeBody names an employee excluded from a run
type SkippedEmployeeBody struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// RunPayrollResponse is a calculated run, its records and any skips
type RunPayrollResponse struct {
	Run     PayRunResponse          `json:"run"`
	Records []PayrollRecordResponse `json:"records"`
	Skipped []SkippedEmployeeBody   `json:"skipped,omitempty"`
}

func toPayRunResponse(r *payroll.PayRun) PayRunResponse {
	return PayRunResponse{
		ID:            r.ID.String(),
		TaxYear:       r.TaxYear,
		PeriodNumber:  r.PeriodNumber,
		Frequency:     string(r.Frequency),
		Status:        string(r.Status),
		EmployeeCount: r.EmployeeCount,
		TotalGross:    r.TotalGross.String(),
		TotalNet:      r.TotalNet.String(),
		TotalCost:     r.TotalCost.String(),
		CompletedAt:   r.CompletedAt,
		CreatedAt:     r.CreatedAt,
	}
}

func toPayrollRecordResponse(r *payroll.PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:              r.ID.String(),
		EmployeeID:      r.EmployeeID.String(),
		TaxYear:         r.TaxYear,
		PeriodNumber:    r.PeriodNumber,
		Frequency:       string(r.Frequency),
		GrossPay:        r.GrossPay.String(),
		IncomeTax:       r.IncomeTax.String(),
		EmployeeNI:      r.EmployeeNI.String(),
		EmployerNI:      r.EmployerNI.String(),
		EmployeePension: r.EmployeePension.String(),
		EmployerPension: r.EmployerPension.String(),
		StudentLoan:     r.StudentLoan.String(),
		NetPay:          r.NetPay.String(),
		Status:          string(r.Status),
		PaidAt:          r.PaidAt,
	}
}

// Run calculates a draft pay run for a period
func (h *PayrollHandler) Run(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.payRunService.RunPayroll(c.Request.Context(), payrollapp.RunPayrollInput{
		TenantID: tenantID,
		Period: payroll.Period{
			TaxYear:   req.TaxYear,
			Number:    req.PeriodNumber,
			Frequency: payrolltax.PayFrequency(req.Frequency),
		},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	records := make([]PayrollRecordResponse, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, toPayrollRecordResponse(record))
	}
	skipped := make([]SkippedEmployeeBody, 0, len(result.Skipped))
	for _, s := range result.Skipped {
		skipped = append(skipped, SkippedEmployeeBody{
			EmployeeID: s.EmployeeID.String(),
			Reason:     s.Reason,
		})
	}

	h.Created(c, RunPayrollResponse{
		Run:     toPayRunResponse(result.Run),
		Records: records,
		Skipped: skipped,
	})
}

// Approve approves a draft run
func (h *PayrollHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	runID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid pay run ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.payRunService.ApproveRun(c.Request.Context(), payrollapp.ApproveRunInput{
		TenantID:   tenantID,
		RunID:      runID,
		ApprovedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Complete marks an approved run as paid
func (h *PayrollHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	runID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid pay run ID")
		return
	}

	var req CompleteRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.payRunService.CompleteRun(c.Request.Context(), payrollapp.CompleteRunInput{
		TenantID:    tenantID,
		RunID:       runID,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get returns a run with its records
func (h *PayrollHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	runID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid pay run ID")
		return
	}

	run, records, err := h.payRunService.GetRun(c.Request.Context(), tenantID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	recordResponses := make([]PayrollRecordResponse, 0, len(records))
	for i := range records {
		recordResponses = append(recordResponses, toPayrollRecordResponse(&records[i]))
	}

	h.Success(c, RunPayrollResponse{
		Run:     toPayRunResponse(run),
		Records: recordResponses,
	})
}

// List returns the tenant's pay runs
func (h *PayrollHandler) List(c *gin.Context) {
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
	if taxYear := c.Query("tax_year"); taxYear != "" {
		filter.Filters["tax_year"] = taxYear
	}

	runs, err := h.payRunService.ListRuns(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PayRunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, toPayRunResponse(&runs[i]))
	}
	h.Success(c, responses)
}

// Payslips returns an employee's payroll history
func (h *PayrollHandler) Payslips(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := buildFilter(req)
	if taxYear := c.Query("tax_year"); taxYear != "" {
		filter.Filters = map[string]interface{}{"tax_year": taxYear}
	}

	records, err := h.payRunService.Payslips(c.Request.Context(), tenantID, employeeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PayrollRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toPayrollRecordResponse(&records[i]))
	}
	h.Success(c, responses)
}
