package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pilotapp "github.com/writecarenotes/backend/internal/application/pilot"
	"github.com/writecarenotes/backend/internal/domain/pilot"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// PilotHandler handles pilot-programme feedback submission and triage
type PilotHandler struct {
	BaseHandler
	feedbackService *pilotapp.FeedbackService
}

// NewPilotHandler creates a new PilotHandler
func NewPilotHandler(feedbackService *pilotapp.FeedbackService) *PilotHandler {
	return &PilotHandler{feedbackService: feedbackService}
}

// SubmitFeedbackRequest is the request body for submitting feedback
type SubmitFeedbackRequest struct {
	Module   string `json:"module" binding:"required,min=1,max=50"`
	Severity string `json:"severity" binding:"required,oneof=blocker major minor suggestion"`
	Message  string `json:"message" binding:"required,min=1,max=4000"`
}

// TriageRequest is the request body for triage transitions
type TriageRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

// FeedbackResponse is the API shape of a feedback event
type FeedbackResponse struct {
	ID          string     `json:"id"`
	Module      string     `json:"module"`
	Severity    string     `json:"severity"`
	Message     string     `json:"message"`
	SubmittedBy string     `json:"submitted_by"`
	Status      string     `json:"status"`
	TriagedBy   string     `json:"triaged_by,omitempty"`
	TriageNote  string     `json:"triage_note,omitempty"`
	TriagedAt   *time.Time `json:"triaged_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FeedbackStatsResponse summarises a tenant's feedback
type FeedbackStatsResponse struct {
	ByStatus map[string]int64 `json:"by_status"`
	ByModule map[string]int64 `json:"by_module"`
	Open     int64            `json:"open"`
	Total    int64            `json:"total"`
}

func toFeedbackResponse(f *pilot.FeedbackEvent) FeedbackResponse {
	resp := FeedbackResponse{
		ID:          f.ID.String(),
		Module:      f.Module,
		Severity:    string(f.Severity),
		Message:     f.Message,
		SubmittedBy: f.SubmittedBy.String(),
		Status:      string(f.Status),
		TriageNote:  f.TriageNote,
		TriagedAt:   f.TriagedAt,
		CreatedAt:   f.CreatedAt,
	}
	if f.TriagedBy != nil {
		resp.TriagedBy = f.TriagedBy.String()
	}
	return resp
}

// Submit accepts feedback onto the background collector queue. The event is
// acknowledged before it reaches the database.
func (h *PilotHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	event, err := h.feedbackService.Submit(c.Request.Context(), pilotapp.SubmitFeedbackInput{
		TenantID:    tenantID,
		SubmittedBy: userID,
		Module:      req.Module,
		Severity:    req.Severity,
		Message:     req.Message,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(toFeedbackResponse(event)))
}

// Get returns a single feedback event
func (h *PilotHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid feedback ID")
		return
	}

	event, err := h.feedbackService.GetFeedback(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFeedbackResponse(event))
}

// List returns a tenant's feedback, optionally filtered by triage status
func (h *PilotHandler) List(c *gin.Context) {
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

	var events []pilot.FeedbackEvent
	if status := c.Query("status"); status != "" {
		events, err = h.feedbackService.ListByStatus(c.Request.Context(), tenantID, pilot.TriageStatus(status), filter)
	} else {
		events, err = h.feedbackService.ListFeedback(c.Request.Context(), tenantID, filter)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]FeedbackResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toFeedbackResponse(&events[i]))
	}
	h.Success(c, responses)
}

// Review marks a new event as reviewed
func (h *PilotHandler) Review(c *gin.Context) {
	h.triage(c, h.feedbackService.Review)
}

// Action closes a reviewed event as acted on
func (h *PilotHandler) Action(c *gin.Context) {
	h.triage(c, h.feedbackService.Action)
}

// Dismiss closes an open event without action
func (h *PilotHandler) Dismiss(c *gin.Context) {
	h.triage(c, h.feedbackService.Dismiss)
}

func (h *PilotHandler) triage(c *gin.Context, transition func(context.Context, pilotapp.TriageInput) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	feedbackID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid feedback ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = transition(c.Request.Context(), pilotapp.TriageInput{
		TenantID:   tenantID,
		FeedbackID: feedbackID,
		TriagedBy:  userID,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats returns the pilot dashboard summary
func (h *PilotHandler) Stats(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.feedbackService.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	byStatus := make(map[string]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	h.Success(c, FeedbackStatsResponse{
		ByStatus: byStatus,
		ByModule: stats.ByModule,
		Open:     stats.Open,
		Total:    stats.Total,
	})
}
