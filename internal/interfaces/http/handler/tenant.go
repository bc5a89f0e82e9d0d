package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	identityapp "github.com/writecarenotes/backend/internal/application/identity"
	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// TenantHandler handles tenant onboarding and care home registration
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateTenantRequest is the request body for onboarding a tenant
type CreateTenantRequest struct {
	Code string `json:"code" binding:"required,min=2,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
	Plan string `json:"plan" binding:"omitempty,oneof=pilot standard enterprise"`
}

// UpdateTenantRequest is the request body for renaming a tenant
type UpdateTenantRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CreateCareHomeRequest is the request body for registering a care home
type CreateCareHomeRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	CQCProviderID string `json:"cqc_provider_id" binding:"max=20"`
	AddressLine1  string `json:"address_line1" binding:"max=200"`
	City          string `json:"city" binding:"max=100"`
	Postcode      string `json:"postcode" binding:"max=10"`
	BedCount      int    `json:"bed_count" binding:"omitempty,min=1,max=500"`
}

// TenantResponse is the API shape of a tenant
type TenantResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Plan         string    `json:"plan"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CareHomeResponse is the API shape of a care home
type CareHomeResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CQCProviderID string    `json:"cqc_provider_id,omitempty"`
	AddressLine1  string    `json:"address_line1,omitempty"`
	City          string    `json:"city,omitempty"`
	Postcode      string    `json:"postcode,omitempty"`
	BedCount      int       `json:"bed_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID.String(),
		Code:         t.Code,
		Name:         t.Name,
		Status:       string(t.Status),
		Plan:         string(t.Plan),
		ContactName:  t.ContactName,
		ContactEmail: t.ContactEmail,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toCareHomeResponse(ch *identity.CareHome) CareHomeResponse {
	return CareHomeResponse{
		ID:            ch.ID.String(),
		Name:          ch.Name,
		CQCProviderID: ch.CQCProviderID,
		AddressLine1:  ch.AddressLine1,
		City:          ch.City,
		Postcode:      ch.Postcode,
		BedCount:      ch.BedCount,
		Status:        string(ch.Status),
		CreatedAt:     ch.CreatedAt,
	}
}

// Create onboards a new tenant
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), identityapp.CreateTenantInput{
		Code: req.Code,
		Name: req.Name,
		Plan: req.Plan,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTenantResponse(tenant))
}

// Get returns a single tenant
func (h *TenantHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTenantResponse(tenant))
}

// List returns tenants with pagination
func (h *TenantHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.tenantService.ListTenants(c.Request.Context(), buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TenantResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, toTenantResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, responses, result.Total, result.Page, result.PageSize)
}

// Update renames a tenant
func (h *TenantHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), identityapp.UpdateTenantInput{
		TenantID: id,
		Name:     req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTenantResponse(tenant))
}

// Suspend suspends a tenant
func (h *TenantHandler) Suspend(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.SuspendTenant(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate reactivates a suspended tenant
func (h *TenantHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.ActivateTenant(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateCareHome registers a care home under the caller's tenant
func (h *TenantHandler) CreateCareHome(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCareHomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	careHome, err := h.tenantService.CreateCareHome(c.Request.Context(), identityapp.CreateCareHomeInput{
		TenantID:      tenantID,
		Name:          req.Name,
		CQCProviderID: req.CQCProviderID,
		AddressLine1:  req.AddressLine1,
		City:          req.City,
		Postcode:      req.Postcode,
		BedCount:      req.BedCount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCareHomeResponse(careHome))
}

// GetCareHome returns a single care home
func (h *TenantHandler) GetCareHome(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid care home ID")
		return
	}

	careHome, err := h.tenantService.GetCareHome(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCareHomeResponse(careHome))
}

// ListCareHomes returns the tenant's care homes with pagination
func (h *TenantHandler) ListCareHomes(c *gin.Context) {
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

	result, err := h.tenantService.ListCareHomes(c.Request.Context(), tenantID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CareHomeResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, toCareHomeResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, responses, result.Total, result.Page, result.PageSize)
}
