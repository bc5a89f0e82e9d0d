package handler

import (
	"github.com/gin-gonic/gin"

	residentapp "github.com/writecarenotes/backend/internal/application/resident"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// CarePlanHandler handles care plan drafting and the review cycle
type CarePlanHandler struct {
	BaseHandler
	carePlanService *residentapp.CarePlanService
}

// NewCarePlanHandler creates a new CarePlanHandler
func NewCarePlanHandler(carePlanService *residentapp.CarePlanService) *CarePlanHandler {
	return &CarePlanHandler{carePlanService: carePlanService}
}

// CreateCarePlanRequest is the request body for drafting a care plan
type CreateCarePlanRequest struct {
	ResidentID      string `json:"resident_id" binding:"required,uuid"`
	Title           string `json:"title" binding:"required,min=1,max=200"`
	Summary         string `json:"summary" binding:"max=5000"`
	ReviewEveryDays int    `json:"review_every_days" binding:"required,min=7,max=365"`
}

// ReviewCarePlanRequest is the request body for recording a review
type ReviewCarePlanRequest struct {
	Summary string `json:"summary" binding:"max=5000"`
}

// Create drafts a care plan for a resident
func (h *CarePlanHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCarePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	residentID, err := parseUUID(req.ResidentID)
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	plan, err := h.carePlanService.CreateCarePlan(c.Request.Context(), residentapp.CreateCarePlanInput{
		TenantID:        tenantID,
		ResidentID:      residentID,
		Title:           req.Title,
		Summary:         req.Summary,
		ReviewEveryDays: req.ReviewEveryDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCarePlanResponse(plan))
}

// Activate publishes a draft plan and starts its review clock
func (h *CarePlanHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid care plan ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	plan, err := h.carePlanService.ActivateCarePlan(c.Request.Context(), tenantID, planID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCarePlanResponse(plan))
}

// Review records a completed review against an active plan
func (h *CarePlanHandler) Review(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid care plan ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ReviewCarePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	plan, err := h.carePlanService.ReviewCarePlan(c.Request.Context(), residentapp.ReviewCarePlanInput{
		TenantID:   tenantID,
		CarePlanID: planID,
		ReviewedBy: userID,
		Summary:    req.Summary,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCarePlanResponse(plan))
}

// ListForResident returns a resident's care plans
func (h *CarePlanHandler) ListForResident(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	residentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := buildFilter(req)
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	plans, err := h.carePlanService.ListCarePlans(c.Request.Context(), tenantID, residentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CarePlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, toCarePlanResponse(&plans[i]))
	}
	h.Success(c, responses)
}

// DueForReview returns active plans inside or past their review window
func (h *CarePlanHandler) DueForReview(c *gin.Context) {
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

	items, err := h.carePlanService.PlansDueForReview(c.Request.Context(), tenantID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CarePlanReviewResponse, 0, len(items))
	for i := range items {
		responses = append(responses, CarePlanReviewResponse{
			Plan:   toCarePlanResponse(&items[i].Plan),
			Status: string(items[i].Status),
		})
	}
	h.Success(c, responses)
}
