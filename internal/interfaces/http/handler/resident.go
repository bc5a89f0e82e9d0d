package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	residentapp "github.com/writecarenotes/backend/internal/application/resident"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// ResidentHandler handles the resident admission lifecycle
type ResidentHandler struct {
	BaseHandler
	residentService *residentapp.ResidentService
}

// NewResidentHandler creates a new ResidentHandler
func NewResidentHandler(residentService *residentapp.ResidentService) *ResidentHandler {
	return &ResidentHandler{residentService: residentService}
}

// CreateResidentRequest is the request body for registering an enquiry
type CreateResidentRequest struct {
	CareHomeID  string    `json:"care_home_id" binding:"required,uuid"`
	FirstName   string    `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string    `json:"last_name" binding:"required,min=1,max=100"`
	NHSNumber   string    `json:"nhs_number" binding:"omitempty,len=10"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	CareLevel   string    `json:"care_level" binding:"required,oneof=residential nursing dementia respite"`
}

// AdmitResidentRequest is the request body for admitting a resident
type AdmitResidentRequest struct {
	Room       string    `json:"room" binding:"required,min=1,max=20"`
	AdmittedAt time.Time `json:"admitted_at" binding:"required"`
}

// TransferRoomRequest is the request body for a room transfer
type TransferRoomRequest struct {
	Room string `json:"room" binding:"required,min=1,max=20"`
}

// DischargeResidentRequest is the request body for a discharge
type DischargeResidentRequest struct {
	DischargedAt time.Time `json:"discharged_at" binding:"required"`
	Note         string    `json:"note" binding:"max=2000"`
}

// RecordDeathRequest is the request body for recording a death
type RecordDeathRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// SetNextOfKinRequest is the request body for updating next of kin
type SetNextOfKinRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Relationship string `json:"relationship" binding:"required,min=1,max=50"`
	Phone        string `json:"phone" binding:"required,min=1,max=20"`
	Email        string `json:"email" binding:"omitempty,email,max=255"`
}

// SetGPRequest is the request body for updating GP details
type SetGPRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Practice string `json:"practice" binding:"max=200"`
}

// Create registers a resident enquiry
func (h *ResidentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	careHomeID, err := parseUUID(req.CareHomeID)
	if err != nil {
		h.BadRequest(c, "Invalid care home ID")
		return
	}

	res, err := h.residentService.CreateResident(c.Request.Context(), residentapp.CreateResidentInput{
		TenantID:    tenantID,
		CareHomeID:  careHomeID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		NHSNumber:   req.NHSNumber,
		DateOfBirth: req.DateOfBirth,
		CareLevel:   req.CareLevel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toResidentResponse(res))
}

// Get returns a single resident
func (h *ResidentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	res, err := h.residentService.GetResident(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toResidentResponse(res))
}

// List returns residents with pagination. Supports status, care_level and
// care_home_id filters.
func (h *ResidentHandler) List(c *gin.Context) {
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
	if level := c.Query("care_level"); level != "" {
		filter.Filters["care_level"] = level
	}
	if home := c.Query("care_home_id"); home != "" {
		filter.Filters["care_home_id"] = home
	}

	result, err := h.residentService.ListResidents(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ResidentResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, toResidentResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, responses, result.Total, result.Page, result.PageSize)
}

// Admit admits a resident into a room
func (h *ResidentHandler) Admit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req AdmitResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	res, err := h.residentService.AdmitResident(c.Request.Context(), residentapp.AdmitResidentInput{
		TenantID:   tenantID,
		ResidentID: id,
		Room:       req.Room,
		AdmittedAt: req.AdmittedAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toResidentResponse(res))
}

// TransferRoom moves an admitted resident to another room
func (h *ResidentHandler) TransferRoom(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req TransferRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	res, err := h.residentService.TransferRoom(c.Request.Context(), residentapp.TransferRoomInput{
		TenantID:   tenantID,
		ResidentID: id,
		Room:       req.Room,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toResidentResponse(res))
}

// Discharge discharges a resident
func (h *ResidentHandler) Discharge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req DischargeResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	res, err := h.residentService.DischargeResident(c.Request.Context(), residentapp.DischargeResidentInput{
		TenantID:     tenantID,
		ResidentID:   id,
		DischargedAt: req.DischargedAt,
		Note:         req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toResidentResponse(res))
}

// RecordDeath records a resident's death
func (h *ResidentHandler) RecordDeath(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req RecordDeathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	res, err := h.residentService.RecordDeath(c.Request.Context(), tenantID, id, req.At)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toResidentResponse(res))
}

// SetNextOfKin updates a resident's next of kin
func (h *ResidentHandler) SetNextOfKin(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req SetNextOfKinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.residentService.SetNextOfKin(c.Request.Context(), residentapp.SetNextOfKinInput{
		TenantID:   tenantID,
		ResidentID: id,
		Kin: resident.NextOfKin{
			Name:         req.Name,
			Relationship: req.Relationship,
			Phone:        req.Phone,
			Email:        req.Email,
		},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetGP updates a resident's GP details
func (h *ResidentHandler) SetGP(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	var req SetGPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.residentService.SetGP(c.Request.Context(), tenantID, id, req.Name, req.Practice); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
