package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	hrapp "github.com/writecarenotes/backend/internal/application/hr"
	"github.com/writecarenotes/backend/internal/domain/hr"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// EmployeeHandler handles the employment lifecycle and professional
// registrations
type EmployeeHandler struct {
	BaseHandler
	employeeService *hrapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *hrapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// RegistrationBody is one professional registration supplied at hire
type RegistrationBody struct {
	Type      string    `json:"type" binding:"required,oneof=nmc dbs"`
	Reference string    `json:"reference" binding:"required,min=1,max=50"`
	IssuedAt  time.Time `json:"issued_at" binding:"required"`
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// ContractBody describes an employment contract
type ContractBody struct {
	Basis        string     `json:"basis" binding:"required,oneof=salaried hourly"`
	AnnualSalary float64    `json:"annual_salary" binding:"omitempty,min=0"`
	HourlyRate   float64    `json:"hourly_rate" binding:"omitempty,min=0"`
	HoursPerWeek float64    `json:"hours_per_week" binding:"omitempty,min=0,max=168"`
	PayFrequency string     `json:"pay_frequency" binding:"required,oneof=monthly weekly"`
	StartDate    time.Time  `json:"start_date" binding:"required"`
	EndDate      *time.Time `json:"end_date"`
}

// HireEmployeeRequest is the request body for hiring an employee
type HireEmployeeRequest struct {
	CareHomeID     string             `json:"care_home_id" binding:"required,uuid"`
	EmployeeNumber string             `json:"employee_number" binding:"required,min=1,max=20"`
	FirstName      string             `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string             `json:"last_name" binding:"required,min=1,max=100"`
	Email          string             `json:"email" binding:"omitempty,email,max=255"`
	Phone          string             `json:"phone" binding:"max=20"`
	JobTitle       string             `json:"job_title" binding:"required,min=1,max=100"`
	NINumber       string             `json:"ni_number" binding:"required,len=9"`
	TaxCode        string             `json:"tax_code" binding:"required,min=2,max=10"`
	NICategory     string             `json:"ni_category" binding:"omitempty,len=1"`
	Contract       ContractBody       `json:"contract" binding:"required"`
	Registrations  []RegistrationBody `json:"registrations" binding:"omitempty,dive"`
}

// SetTaxDetailsRequest is the request body for updating HMRC coding
type SetTaxDetailsRequest struct {
	TaxCode     string `json:"tax_code" binding:"required,min=2,max=10"`
	NICategory  string `json:"ni_category" binding:"omitempty,len=1"`
	StudentLoan string `json:"student_loan" binding:"omitempty,oneof=plan1 plan2 plan4 plan5 postgrad"`
}

// SetPensionRequest is the request body for auto-enrolment choices
type SetPensionRequest struct {
	OptOut bool    `json:"opt_out"`
	Rate   float64 `json:"rate" binding:"omitempty,min=0,max=1"`
}

// RecordLeavingRequest is the request body for ending an employment
type RecordLeavingRequest struct {
	LeavingOn time.Time `json:"leaving_on" binding:"required"`
}

// RenewRegistrationRequest is the request body for a registration renewal
type RenewRegistrationRequest struct {
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// EmployeeResponse is the API shape of an employee
type EmployeeResponse struct {
	ID             string       `json:"id"`
	CareHomeID     string       `json:"care_home_id,omitempty"`
	EmployeeNumber string       `json:"employee_number"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	JobTitle       string       `json:"job_title"`
	NINumber       string       `json:"ni_number"`
	TaxCode        string       `json:"tax_code"`
	NICategory     string       `json:"ni_category"`
	PensionOptOut  bool         `json:"pension_opt_out"`
	PensionRate    string       `json:"pension_rate"`
	StudentLoan    string       `json:"student_loan,omitempty"`
	Contract       ContractBody `json:"contract"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
}

// RegistrationResponse is the API shape of a professional registration
type RegistrationResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Type       string    `json:"type"`
	Reference  string    `json:"reference"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ExpiringRegistrationResponse pairs a registration with its standing
type ExpiringRegistrationResponse struct {
	Registration RegistrationResponse `json:"registration"`
	Standing     string               `json:"standing"`
}

func toEmployeeResponse(e *hr.Employee) EmployeeResponse {
	salary, _ := e.Contract.AnnualSalary.Float64()
	rate, _ := e.Contract.HourlyRate.Float64()
	hours, _ := e.Contract.HoursPerWeek.Float64()
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Phone:          e.Phone,
		JobTitle:       e.JobTitle,
		NINumber:       e.NINumber,
		TaxCode:        e.TaxCode,
		NICategory:     string(e.NICategory),
		PensionOptOut:  e.PensionOptOut,
		PensionRate:    e.PensionRate.String(),
		StudentLoan:    string(e.StudentLoan),
		Contract: ContractBody{
			Basis:        string(e.Contract.Basis),
			AnnualSalary: salary,
			HourlyRate:   rate,
			HoursPerWeek: hours,
			PayFrequency: string(e.Contract.PayFrequency),
			StartDate:    e.Contract.StartDate,
			EndDate:      e.Contract.EndDate,
		},
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
	if e.CareHomeID != nil {
		resp.CareHomeID = e.CareHomeID.String()
	}
	return resp
}

func toRegistrationResponse(r *hr.ProfessionalRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:         r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Type:       string(r.Type),
		Reference:  r.Reference,
		IssuedAt:   r.IssuedAt,
		ExpiresAt:  r.ExpiresAt,
	}
}

// Hire creates an employee with their contract and registrations
func (h *EmployeeHandler) Hire(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req HireEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	careHomeID, err := parseUUID(req.CareHomeID)
	if err != nil {
		h.BadRequest(c, "Invalid care home ID")
		return
	}

	registrations := make([]hrapp.RegistrationInput, 0, len(req.Registrations))
	for _, reg := range req.Registrations {
		registrations = append(registrations, hrapp.RegistrationInput{
			Type:      reg.Type,
			Reference: reg.Reference,
			IssuedAt:  reg.IssuedAt,
			ExpiresAt: reg.ExpiresAt,
		})
	}

	employee, err := h.employeeService.HireEmployee(c.Request.Context(), hrapp.HireEmployeeInput{
		TenantID:       tenantID,
		CareHomeID:     careHomeID,
		EmployeeNumber: req.EmployeeNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		JobTitle:       req.JobTitle,
		NINumber:       req.NINumber,
		TaxCode:        req.TaxCode,
		NICategory:     req.NICategory,
		Contract: hr.Contract{
			Basis:        hr.PayBasis(req.Contract.Basis),
			AnnualSalary: decimal.NewFromFloat(req.Contract.AnnualSalary),
			HourlyRate:   decimal.NewFromFloat(req.Contract.HourlyRate),
			HoursPerWeek: decimal.NewFromFloat(req.Contract.HoursPerWeek),
			PayFrequency: payrolltax.PayFrequency(req.Contract.PayFrequency),
			StartDate:    req.Contract.StartDate,
			EndDate:      req.Contract.EndDate,
		},
		Registrations: registrations,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toEmployeeResponse(employee))
}

// Get returns a single employee
func (h *EmployeeHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEmployeeResponse(employee))
}

// List returns employees with pagination
func (h *EmployeeHandler) List(c *gin.Context) {
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
	if title := c.Query("job_title"); title != "" {
		filter.Filters["job_title"] = title
	}

	result, err := h.employeeService.ListEmployees(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]EmployeeResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, toEmployeeResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, responses, result.Total, result.Page, result.PageSize)
}

// SetTaxDetails updates an employee's HMRC coding
func (h *EmployeeHandler) SetTaxDetails(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req SetTaxDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.employeeService.SetTaxDetails(c.Request.Context(), hrapp.SetTaxDetailsInput{
		TenantID:    tenantID,
		EmployeeID:  id,
		TaxCode:     req.TaxCode,
		NICategory:  req.NICategory,
		StudentLoan: req.StudentLoan,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetPension records an employee's auto-enrolment choices
func (h *EmployeeHandler) SetPension(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req SetPensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.employeeService.SetPension(c.Request.Context(), hrapp.SetPensionInput{
		TenantID:   tenantID,
		EmployeeID: id,
		OptOut:     req.OptOut,
		Rate:       decimal.NewFromFloat(req.Rate),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkOnLeave places an employee on leave
func (h *EmployeeHandler) MarkOnLeave(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.MarkOnLeave(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reinstate returns an employee from leave to active
func (h *EmployeeHandler) Reinstate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.Reinstate(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordLeaving ends an employment
func (h *EmployeeHandler) RecordLeaving(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req RecordLeavingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.employeeService.RecordLeaving(c.Request.Context(), hrapp.RecordLeavingInput{
		TenantID:   tenantID,
		EmployeeID: id,
		LeavingOn:  req.LeavingOn,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddRegistration attaches a professional registration to an employee
func (h *EmployeeHandler) AddRegistration(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req RegistrationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	registration, err := h.employeeService.AddRegistration(c.Request.Context(), tenantID, id, hrapp.RegistrationInput{
		Type:      req.Type,
		Reference: req.Reference,
		IssuedAt:  req.IssuedAt,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRegistrationResponse(registration))
}

// RenewRegistration extends a registration's expiry
func (h *EmployeeHandler) RenewRegistration(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	registrationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	var req RenewRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.employeeService.RenewRegistration(c.Request.Context(), hrapp.RenewRegistrationInput{
		TenantID:       tenantID,
		RegistrationID: registrationID,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ExpiringRegistrations returns registrations that are expiring or expired
func (h *EmployeeHandler) ExpiringRegistrations(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	expiring, err := h.employeeService.ExpiringRegistrations(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ExpiringRegistrationResponse, 0, len(expiring))
	for i := range expiring {
		responses = append(responses, ExpiringRegistrationResponse{
			Registration: toRegistrationResponse(&expiring[i].Registration),
			Standing:     string(expiring[i].Standing),
		})
	}
	h.Success(c, responses)
}
