package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	familyapp "github.com/writecarenotes/backend/internal/application/family"
	"github.com/writecarenotes/backend/internal/domain/family"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// FamilyHandler handles portal contacts and care-team updates
type FamilyHandler struct {
	BaseHandler
	portalService *familyapp.PortalService
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(portalService *familyapp.PortalService) *FamilyHandler {
	return &FamilyHandler{portalService: portalService}
}

// AddContactRequest is the request body for granting portal access
type AddContactRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Relationship string `json:"relationship" binding:"required,max=50"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"max=20"`
	AccessLevel  string `json:"access_level" binding:"required,oneof=full updates_only"`
}

// SetAccessLevelRequest is the request body for changing a contact's access
type SetAccessLevelRequest struct {
	AccessLevel string `json:"access_level" binding:"required,oneof=full updates_only"`
}

// PublishUpdateRequest is the request body for publishing a care update
type PublishUpdateRequest struct {
	ResidentID string `json:"resident_id" binding:"required,uuid"`
	Title      string `json:"title" binding:"required,min=1,max=200"`
	Body       string `json:"body" binding:"required"`
	Visibility string `json:"visibility" binding:"required,oneof=full updates_only"`
}

// AcknowledgeRequest is the request body for acknowledging an update
type AcknowledgeRequest struct {
	ContactID string `json:"contact_id" binding:"required,uuid"`
}

// FamilyContactResponse is the API shape of a portal contact
type FamilyContactResponse struct {
	ID           string `json:"id"`
	ResidentID   string `json:"resident_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	AccessLevel  string `json:"access_level"`
	Active       bool   `json:"active"`
}

// PortalUpdateResponse is the API shape of a published update
type PortalUpdateResponse struct {
	ID          string    `json:"id"`
	ResidentID  string    `json:"resident_id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Visibility  string    `json:"visibility"`
	PublishedAt time.Time `json:"published_at"`
}

// UpdateViewResponse pairs an update with the contact's acknowledgement state
type UpdateViewResponse struct {
	Update       PortalUpdateResponse `json:"update"`
	Acknowledged bool                 `json:"acknowledged"`
}

func toContactResponse(contact *family.FamilyContact) FamilyContactResponse {
	return FamilyContactResponse{
		ID:           contact.ID.String(),
		ResidentID:   contact.ResidentID.String(),
		Name:         contact.Name,
		Relationship: contact.Relationship,
		Email:        contact.Email,
		Phone:        contact.Phone,
		AccessLevel:  string(contact.AccessLevel),
		Active:       contact.Active,
	}
}

func toUpdateResponse(update *family.PortalUpdate) PortalUpdateResponse {
	return PortalUpdateResponse{
		ID:          update.ID.String(),
		ResidentID:  update.ResidentID.String(),
		AuthorID:    update.AuthorID.String(),
		Title:       update.Title,
		Body:        update.Body,
		Visibility:  string(update.Visibility),
		PublishedAt: update.PublishedAt,
	}
}

// AddContact grants a relative portal access to a resident's record
func (h *FamilyHandler) AddContact(c *gin.Context) {
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

	var req AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	contact, err := h.portalService.AddContact(c.Request.Context(), familyapp.AddContactInput{
		TenantID:     tenantID,
		ResidentID:   residentID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Email:        req.Email,
		Phone:        req.Phone,
		AccessLevel:  req.AccessLevel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toContactResponse(contact))
}

// ListContacts returns a resident's portal contacts
func (h *FamilyHandler) ListContacts(c *gin.Context) {
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

	contacts, err := h.portalService.ListContacts(c.Request.Context(), tenantID, residentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]FamilyContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, toContactResponse(&contacts[i]))
	}
	h.Success(c, responses)
}

// SetAccessLevel changes what a contact can see
func (h *FamilyHandler) SetAccessLevel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req SetAccessLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.portalService.SetAccessLevel(c.Request.Context(), tenantID, contactID, req.AccessLevel); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RevokeAccess deactivates a contact
func (h *FamilyHandler) RevokeAccess(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	if err := h.portalService.RevokeAccess(c.Request.Context(), tenantID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PublishUpdate publishes a care-team update to a resident's contacts
func (h *FamilyHandler) PublishUpdate(c *gin.Context) {
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

	var req PublishUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	residentID, err := parseUUID(req.ResidentID)
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	update, err := h.portalService.PublishUpdate(c.Request.Context(), familyapp.PublishUpdateInput{
		TenantID:   tenantID,
		ResidentID: residentID,
		AuthorID:   userID,
		Title:      req.Title,
		Body:       req.Body,
		Visibility: req.Visibility,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUpdateResponse(update))
}

// UpdatesForContact returns the updates a contact may read
func (h *FamilyHandler) UpdatesForContact(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	views, err := h.portalService.UpdatesForContact(c.Request.Context(), tenantID, contactID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]UpdateViewResponse, 0, len(views))
	for i := range views {
		responses = append(responses, UpdateViewResponse{
			Update:       toUpdateResponse(&views[i].Update),
			Acknowledged: views[i].Acknowledged,
		})
	}
	h.Success(c, responses)
}

// Acknowledge records that a contact has seen an update
func (h *FamilyHandler) Acknowledge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	updateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid update ID")
		return
	}

	var req AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	contactID, err := parseUUID(req.ContactID)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	err = h.portalService.Acknowledge(c.Request.Context(), familyapp.AcknowledgeInput{
		TenantID:  tenantID,
		UpdateID:  updateID,
		ContactID: contactID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
