package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	pilotapp "github.com/writecarenotes/backend/internal/application/pilot"
	"github.com/writecarenotes/backend/internal/infrastructure/persistence"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db              *persistence.Database
	feedbackService *pilotapp.FeedbackService
	version         string
	startTime       time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, feedbackService *pilotapp.FeedbackService, version string) *SystemHandler {
	return &SystemHandler{
		db:              db,
		feedbackService: feedbackService,
		version:         version,
		startTime:       time.Now(),
	}
}

// SystemInfoResponse is basic version and runtime information
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse reports service and dependency health
type HealthResponse struct {
	Status             string `json:"status"`
	Database           string `json:"database"`
	FeedbackQueueDepth int    `json:"feedback_queue_depth"`
	Timestamp          string `json:"timestamp"`
}

// Info returns version and uptime
func (h *SystemHandler) Info(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "WriteCareNotes API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// Health pings the database and reports dependency state. An unreachable
// database returns 503 so load balancers stop routing here.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.feedbackService != nil {
		resp.FeedbackQueueDepth = h.feedbackService.QueueDepth()
	}

	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}
