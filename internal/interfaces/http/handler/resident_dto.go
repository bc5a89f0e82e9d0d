package handler

import (
	"time"

	"github.com/writecarenotes/backend/internal/domain/resident"
)

// NextOfKinBody is the API shape of a resident's next of kin
type NextOfKinBody struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

// ResidentResponse is the API shape of a resident
type ResidentResponse struct {
	ID            string         `json:"id"`
	CareHomeID    string         `json:"care_home_id,omitempty"`
	NHSNumber     string         `json:"nhs_number,omitempty"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	DateOfBirth   time.Time      `json:"date_of_birth"`
	Status        string         `json:"status"`
	CareLevel     string         `json:"care_level"`
	Room          string         `json:"room,omitempty"`
	GPName        string         `json:"gp_name,omitempty"`
	GPPractice    string         `json:"gp_practice,omitempty"`
	NextOfKin     *NextOfKinBody `json:"next_of_kin,omitempty"`
	AdmittedAt    *time.Time     `json:"admitted_at,omitempty"`
	DischargedAt  *time.Time     `json:"discharged_at,omitempty"`
	DischargeNote string         `json:"discharge_note,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CarePlanResponse is the API shape of a care plan
type CarePlanResponse struct {
	ID              string     `json:"id"`
	ResidentID      string     `json:"resident_id"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary,omitempty"`
	Status          string     `json:"status"`
	ReviewEveryDays int        `json:"review_every_days"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CarePlanReviewResponse pairs a plan with its review standing
type CarePlanReviewResponse struct {
	Plan   CarePlanResponse `json:"plan"`
	Status string           `json:"status"`
}

// DocumentResponse is the API shape of a resident document
type DocumentResponse struct {
	ID          string    `json:"id"`
	ResidentID  string    `json:"resident_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Category    string    `json:"category"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentUploadResponse is a document with its presigned upload URL
type DocumentUploadResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// DocumentDownloadResponse is a document with its presigned download URL
type DocumentDownloadResponse struct {
	Document    DocumentResponse `json:"document"`
	DownloadURL string           `json:"download_url"`
	ExpiresAt   time.Time        `json:"expires_at"`
}

func toResidentResponse(r *resident.Resident) ResidentResponse {
	resp := ResidentResponse{
		ID:            r.ID.String(),
		NHSNumber:     r.NHSNumber,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		DateOfBirth:   r.DateOfBirth,
		Status:        string(r.Status),
		CareLevel:     string(r.CareLevel),
		Room:          r.Room,
		GPName:        r.GPName,
		GPPractice:    r.GPPractice,
		AdmittedAt:    r.AdmittedAt,
		DischargedAt:  r.DischargedAt,
		DischargeNote: r.DischargeNote,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.CareHomeID != nil {
		resp.CareHomeID = r.CareHomeID.String()
	}
	if r.NextOfKin.Name != "" {
		resp.NextOfKin = &NextOfKinBody{
			Name:         r.NextOfKin.Name,
			Relationship: r.NextOfKin.Relationship,
			Phone:        r.NextOfKin.Phone,
			Email:        r.NextOfKin.Email,
		}
	}
	return resp
}

func toCarePlanResponse(p *resident.CarePlan) CarePlanResponse {
	return CarePlanResponse{
		ID:              p.ID.String(),
		ResidentID:      p.ResidentID.String(),
		Title:           p.Title,
		Summary:         p.Summary,
		Status:          string(p.Status),
		ReviewEveryDays: p.ReviewEveryDays,
		LastReviewedAt:  p.LastReviewedAt,
		NextReviewAt:    p.NextReviewAt,
		CreatedAt:       p.CreatedAt,
	}
}

func toDocumentResponse(d *resident.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		ResidentID:  d.ResidentID.String(),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Category:    string(d.Category),
		UploadedBy:  d.UploadedBy.String(),
		CreatedAt:   d.CreatedAt,
	}
}
