package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	complianceapp "github.com/writecarenotes/backend/internal/application/compliance"
	"github.com/writecarenotes/backend/internal/domain/compliance"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// ComplianceHandler handles regulatory requirements and their completion
// evidence
type ComplianceHandler struct {
	BaseHandler
	complianceService *complianceapp.ComplianceService
}

// NewComplianceHandler creates a new ComplianceHandler
func NewComplianceHandler(complianceService *complianceapp.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

// CreateRequirementRequest is the request body for registering a requirement
type CreateRequirementRequest struct {
	CareHomeID   string `json:"care_home_id" binding:"required,uuid"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Category     string `json:"category" binding:"required,oneof=cqc fire_safety training hygiene other"`
	Regulation   string `json:"regulation" binding:"max=50"`
	IntervalDays int    `json:"interval_days" binding:"required,min=1,max=3650"`
}

// RecordCompletionRequest is the request body for evidencing a completion
type RecordCompletionRequest struct {
	CompletedAt time.Time `json:"completed_at" binding:"required"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// RequirementResponse is the API shape of a compliance requirement
type RequirementResponse struct {
	ID              string     `json:"id"`
	CareHomeID      string     `json:"care_home_id,omitempty"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Regulation      string     `json:"regulation,omitempty"`
	IntervalDays    int        `json:"interval_days"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	Active          bool       `json:"active"`
}

// RequirementStandingResponse pairs a requirement with its derived status
type RequirementStandingResponse struct {
	Requirement RequirementResponse `json:"requirement"`
	Status      string              `json:"status"`
	NextDue     time.Time           `json:"next_due"`
}

// ComplianceEventResponse is the API shape of a completion event
type ComplianceEventResponse struct {
	ID            string    `json:"id"`
	RequirementID string    `json:"requirement_id"`
	CompletedBy   string    `json:"completed_by"`
	CompletedAt   time.Time `json:"completed_at"`
	Notes         string    `json:"notes,omitempty"`
}

func toRequirementResponse(r *compliance.ComplianceRequirement) RequirementResponse {
	resp := RequirementResponse{
		ID:              r.ID.String(),
		Name:            r.Name,
		Category:        string(r.Category),
		Regulation:      r.Regulation,
		IntervalDays:    r.IntervalDays,
		LastCompletedAt: r.LastCompletedAt,
		Active:          r.Active,
	}
	if r.CareHomeID != nil {
		resp.CareHomeID = r.CareHomeID.String()
	}
	return resp
}

func toEventResponse(e *compliance.ComplianceEvent) ComplianceEventResponse {
	return ComplianceEventResponse{
		ID:            e.ID.String(),
		RequirementID: e.RequirementID.String(),
		CompletedBy:   e.CompletedBy.String(),
		CompletedAt:   e.CompletedAt,
		Notes:         e.Notes,
	}
}

// Create registers a recurring compliance requirement
func (h *ComplianceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	careHomeID, err := parseUUID(req.CareHomeID)
	if err != nil {
		h.BadRequest(c, "Invalid care home ID")
		return
	}

	requirement, err := h.complianceService.CreateRequirement(c.Request.Context(), complianceapp.CreateRequirementInput{
		TenantID:     tenantID,
		CareHomeID:   careHomeID,
		Name:         req.Name,
		Category:     req.Category,
		Regulation:   req.Regulation,
		IntervalDays: req.IntervalDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRequirementResponse(requirement))
}

// Get returns a single requirement
func (h *ComplianceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid requirement ID")
		return
	}

	requirement, err := h.complianceService.GetRequirement(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRequirementResponse(requirement))
}

// List returns requirements with their current standing
func (h *ComplianceHandler) List(c *gin.Context) {
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
	if category := c.Query("category"); category != "" {
		filter.Filters = map[string]interface{}{"category": category}
	}

	standings, err := h.complianceService.ListRequirements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]RequirementStandingResponse, 0, len(standings))
	for i := range standings {
		responses = append(responses, RequirementStandingResponse{
			Requirement: toRequirementResponse(&standings[i].Requirement),
			Status:      string(standings[i].Status),
			NextDue:     standings[i].NextDue,
		})
	}
	h.Success(c, responses)
}

// RecordCompletion evidences a completed requirement
func (h *ComplianceHandler) RecordCompletion(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requirementID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid requirement ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	event, err := h.complianceService.RecordCompletion(c.Request.Context(), complianceapp.RecordCompletionInput{
		TenantID:      tenantID,
		RequirementID: requirementID,
		CompletedBy:   userID,
		CompletedAt:   req.CompletedAt,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toEventResponse(event))
}

// Retire deactivates a requirement
func (h *ComplianceHandler) Retire(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid requirement ID")
		return
	}

	if err := h.complianceService.RetireRequirement(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// History returns a requirement's completion history
func (h *ComplianceHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requirementID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid requirement ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	events, err := h.complianceService.CompletionHistory(c.Request.Context(), tenantID, requirementID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ComplianceEventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i]))
	}
	h.Success(c, responses)
}

// Due returns requirements that are due or overdue
func (h *ComplianceHandler) Due(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	standings, err := h.complianceService.DueRequirements(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]RequirementStandingResponse, 0, len(standings))
	for i := range standings {
		responses = append(responses, RequirementStandingResponse{
			Requirement: toRequirementResponse(&standings[i].Requirement),
			Status:      string(standings[i].Status),
			NextDue:     standings[i].NextDue,
		})
	}
	h.Success(c, responses)
}
