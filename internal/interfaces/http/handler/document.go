package handler

import (
	"github.com/gin-gonic/gin"

	residentapp "github.com/writecarenotes/backend/internal/application/resident"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles resident document uploads and downloads. Files
// move directly between the client and object storage over presigned URLs;
// the API only records metadata.
type DocumentHandler struct {
	BaseHandler
	documentService *residentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *residentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// InitiateUploadRequest is the request body for starting an upload
type InitiateUploadRequest struct {
	ResidentID  string `json:"resident_id" binding:"required,uuid"`
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,min=1,max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
	Category    string `json:"category" binding:"required,oneof=assessment medical legal other"`
}

// InitiateUpload records document metadata and returns a presigned PUT URL
func (h *DocumentHandler) InitiateUpload(c *gin.Context) {
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

	var req InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	residentID, err := parseUUID(req.ResidentID)
	if err != nil {
		h.BadRequest(c, "Invalid resident ID")
		return
	}

	result, err := h.documentService.InitiateUpload(c.Request.Context(), residentapp.InitiateUploadInput{
		TenantID:    tenantID,
		ResidentID:  residentID,
		UploadedBy:  userID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Category:    req.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, DocumentUploadResponse{
		Document:  toDocumentResponse(result.Document),
		UploadURL: result.UploadURL,
		ExpiresAt: result.ExpiresAt,
	})
}

// Download returns a presigned GET URL for a document
func (h *DocumentHandler) Download(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	documentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	result, err := h.documentService.GetDownloadURL(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DocumentDownloadResponse{
		Document:    toDocumentResponse(result.Document),
		DownloadURL: result.DownloadURL,
		ExpiresAt:   result.ExpiresAt,
	})
}

// ListForResident returns a resident's documents
func (h *DocumentHandler) ListForResident(c *gin.Context) {
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
	if category := c.Query("category"); category != "" {
		filter.Filters = map[string]interface{}{"category": category}
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), tenantID, residentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, toDocumentResponse(&docs[i]))
	}
	h.Success(c, responses)
}

// Delete removes a document and its stored object
func (h *DocumentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	documentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), tenantID, documentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
