package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	medicationapp "github.com/writecarenotes/backend/internal/application/medication"
	"github.com/writecarenotes/backend/internal/domain/medication"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// MedicationHandler handles prescriptions, schedule generation and the MAR
// chart
type MedicationHandler struct {
	BaseHandler
	medicationService *medicationapp.MedicationService
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(medicationService *medicationapp.MedicationService) *MedicationHandler {
	return &MedicationHandler{medicationService: medicationService}
}

// CreatePrescriptionRequest is the request body for recording a prescription
type CreatePrescriptionRequest struct {
	ResidentID     string     `json:"resident_id" binding:"required,uuid"`
	MedicationName string     `json:"medication_name" binding:"required,min=1,max=200"`
	Dose           string     `json:"dose" binding:"required,min=1,max=100"`
	Route          string     `json:"route" binding:"required,oneof=oral topical injection inhaled sublingual pr transdermal"`
	Frequency      string     `json:"frequency" binding:"required,oneof=OD BD TDS QDS ON WEEKLY PRN"`
	Prescriber     string     `json:"prescriber" binding:"max=200"`
	StartDate      time.Time  `json:"start_date" binding:"required"`
	EndDate        *time.Time `json:"end_date"`
	MaxDailyDoses  int        `json:"max_daily_doses" binding:"omitempty,min=1,max=12"`
}

// DiscontinueRequest is the request body for stopping a prescription
type DiscontinueRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

// GenerateScheduleRequest is the request body for schedule generation
type GenerateScheduleRequest struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

// RecordAdministrationRequest is the request body for a MAR entry
type RecordAdministrationRequest struct {
	SlotID         string    `json:"slot_id" binding:"required,uuid"`
	Outcome        string    `json:"outcome" binding:"required,oneof=given refused omitted"`
	Note           string    `json:"note" binding:"max=2000"`
	AdministeredAt time.Time `json:"administered_at" binding:"required"`
}

// RecordPRNRequest is the request body for an on-demand dose
type RecordPRNRequest struct {
	PrescriptionID string    `json:"prescription_id" binding:"required,uuid"`
	Note           string    `json:"note" binding:"max=2000"`
	AdministeredAt time.Time `json:"administered_at" binding:"required"`
}

// PrescriptionResponse is the API shape of a prescription
type PrescriptionResponse struct {
	ID              string     `json:"id"`
	ResidentID      string     `json:"resident_id"`
	MedicationName  string     `json:"medication_name"`
	Dose            string     `json:"dose"`
	Route           string     `json:"route"`
	Frequency       string     `json:"frequency"`
	PRN             bool       `json:"prn"`
	MaxDailyDoses   int        `json:"max_daily_doses,omitempty"`
	Prescriber      string     `json:"prescriber,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Status          string     `json:"status"`
	DiscontinueNote string     `json:"discontinue_note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ScheduleSlotResponse is the API shape of a schedule slot
type ScheduleSlotResponse struct {
	ID             string    `json:"id"`
	PrescriptionID string    `json:"prescription_id"`
	ResidentID     string    `json:"resident_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Completed      bool      `json:"completed"`
}

// AdministrationResponse is the API shape of an administration record
type AdministrationResponse struct {
	ID             string    `json:"id"`
	PrescriptionID string    `json:"prescription_id"`
	ResidentID     string    `json:"resident_id"`
	SlotID         string    `json:"slot_id,omitempty"`
	Outcome        string    `json:"outcome"`
	Note           string    `json:"note,omitempty"`
	AdministeredBy string    `json:"administered_by"`
	AdministeredAt time.Time `json:"administered_at"`
}

// MARRowResponse pairs a slot with its administration record, if any
type MARRowResponse struct {
	Slot   ScheduleSlotResponse    `json:"slot"`
	Record *AdministrationResponse `json:"record,omitempty"`
}

func toPrescriptionResponse(p *medication.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:              p.ID.String(),
		ResidentID:      p.ResidentID.String(),
		MedicationName:  p.MedicationName,
		Dose:            p.Dose,
		Route:           string(p.Route),
		Frequency:       string(p.Frequency),
		PRN:             p.PRN,
		MaxDailyDoses:   p.MaxDailyDoses,
		Prescriber:      p.Prescriber,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		Status:          string(p.Status),
		DiscontinueNote: p.DiscontinueNote,
		CreatedAt:       p.CreatedAt,
	}
}

func toSlotResponse(s *medication.ScheduleSlot) ScheduleSlotResponse {
	return ScheduleSlotResponse{
		ID:             s.ID.String(),
		PrescriptionID: s.PrescriptionID.String(),
		ResidentID:     s.ResidentID.String(),
		ScheduledAt:    s.ScheduledAt,
		Completed:      s.Completed,
	}
}

func toAdministrationResponse(r *medication.AdministrationRecord) AdministrationResponse {
	resp := AdministrationResponse{
		ID:             r.ID.String(),
		PrescriptionID: r.PrescriptionID.String(),
		ResidentID:     r.ResidentID.String(),
		Outcome:        string(r.Outcome),
		Note:           r.Note,
		AdministeredBy: r.AdministeredBy.String(),
		AdministeredAt: r.AdministeredAt,
	}
	if r.SlotID != nil {
		resp.SlotID = r.SlotID.String()
	}
	return resp
}

// CreatePrescription records a prescription for a resident
func (h *MedicationHandler) CreatePrescription(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	residentID, err := parseUUID(req.ResidentID)
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	prescription, err := h.medicationService.CreatePrescription(c.Request.Context(), medicationapp.CreatePrescriptionInput{
		TenantID:       tenantID,
		ResidentID:     residentID,
		MedicationName: req.MedicationName,
		Dose:           req.Dose,
		Route:          req.Route,
		Frequency:      req.Frequency,
		Prescriber:     req.Prescriber,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		MaxDailyDoses:  req.MaxDailyDoses,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPrescriptionResponse(prescription))
}

// GetPrescription returns a single prescription
func (h *MedicationHandler) GetPrescription(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	prescription, err := h.medicationService.GetPrescription(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPrescriptionResponse(prescription))
}

// ListPrescriptions returns a resident's prescriptions
func (h *MedicationHandler) ListPrescriptions(c *gin.Context) {
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

	prescriptions, err := h.medicationService.ListPrescriptions(c.Request.Context(), tenantID, residentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		responses = append(responses, toPrescriptionResponse(&prescriptions[i]))
	}
	h.Success(c, responses)
}

// Discontinue stops an active prescription
func (h *MedicationHandler) Discontinue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req DiscontinueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.medicationService.Discontinue(c.Request.Context(), medicationapp.DiscontinueInput{
		TenantID:       tenantID,
		PrescriptionID: id,
		DiscontinuedBy: userID,
		Note:           req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GenerateSchedule creates administration slots for a prescription over a
// date window
func (h *MedicationHandler) GenerateSchedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	var req GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	slots, err := h.medicationService.GenerateSchedule(c.Request.Context(), medicationapp.GenerateScheduleInput{
		TenantID:       tenantID,
		PrescriptionID: id,
		From:           req.From,
		To:             req.To,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ScheduleSlotResponse, 0, len(slots))
	for _, slot := range slots {
		responses = append(responses, toSlotResponse(slot))
	}
	h.Created(c, responses)
}

// RecordAdministration records the outcome of a scheduled dose
func (h *MedicationHandler) RecordAdministration(c *gin.Context) {
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

	var req RecordAdministrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	slotID, err := parseUUID(req.SlotID)
	if err != nil {
		h.BadRequest(c, "Invalid slot ID")
		return
	}

	record, err := h.medicationService.RecordAdministration(c.Request.Context(), medicationapp.RecordAdministrationInput{
		TenantID:       tenantID,
		SlotID:         slotID,
		AdministeredBy: userID,
		Outcome:        req.Outcome,
		Note:           req.Note,
		AdministeredAt: req.AdministeredAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAdministrationResponse(record))
}

// RecordPRN records an on-demand dose against a PRN prescription
func (h *MedicationHandler) RecordPRN(c *gin.Context) {
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

	var req RecordPRNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	prescriptionID, err := parseUUID(req.PrescriptionID)
	if err != nil {
		h.BadRequest(c, "Invalid prescription ID")
		return
	}

	record, err := h.medicationService.RecordPRN(c.Request.Context(), medicationapp.RecordPRNInput{
		TenantID:       tenantID,
		PrescriptionID: prescriptionID,
		AdministeredBy: userID,
		Note:           req.Note,
		AdministeredAt: req.AdministeredAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAdministrationResponse(record))
}

// MARChart returns the medication administration record chart for a
// resident over a date window
func (h *MedicationHandler) MARChart(c *gin.Context) {
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

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing from parameter")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing to parameter")
		return
	}

	rows, err := h.medicationService.MARChart(c.Request.Context(), tenantID, residentID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MARRowResponse, 0, len(rows))
	for i := range rows {
		row := MARRowResponse{Slot: toSlotResponse(&rows[i].Slot)}
		if rows[i].Record != nil {
			record := toAdministrationResponse(rows[i].Record)
			row.Record = &record
		}
		responses = append(responses, row)
	}
	h.Success(c, responses)
}
