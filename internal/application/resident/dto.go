package resident

import (
	"time"

	"github.com/google/uuid"

	"github.com/writecarenotes/backend/internal/domain/resident"
)

// CreateResidentInput contains the input for creating a resident enquiry
type CreateResidentInput struct {
	TenantID    uuid.UUID
	CareHomeID  uuid.UUID
	FirstName   string
	LastName    string
	NHSNumber   string
	DateOfBirth time.Time
	CareLevel   string
}

// AdmitResidentInput contains the input for admitting a resident
type AdmitResidentInput struct {
	TenantID   uuid.UUID
	ResidentID uuid.UUID
	Room       string
	AdmittedAt time.Time
}

// TransferRoomInput contains the input for a room transfer
type TransferRoomInput struct {
	TenantID   uuid.UUID
	ResidentID uuid.UUID
	Room       string
}

// DischargeResidentInput contains the input for discharging a resident
type DischargeResidentInput struct {
	TenantID     uuid.UUID
	ResidentID   uuid.UUID
	DischargedAt time.Time
	Note         string
}

// SetNextOfKinInput contains the input for updating a resident's next of kin
type SetNextOfKinInput struct {
	TenantID   uuid.UUID
	ResidentID uuid.UUID
	Kin        resident.NextOfKin
}

// CreateCarePlanInput contains the input for drafting a care plan
type CreateCarePlanInput struct {
	TenantID        uuid.UUID
	ResidentID      uuid.UUID
	Title           string
	Summary         string
	ReviewEveryDays int
}

// ReviewCarePlanInput contains the input for recording a care plan review
type ReviewCarePlanInput struct {
	TenantID   uuid.UUID
	CarePlanID uuid.UUID
	ReviewedBy uuid.UUID
	Summary    string
}

// CarePlanReviewItem is a care plan with its derived review standing
type CarePlanReviewItem struct {
	Plan   resident.CarePlan
	Status resident.ReviewOutcome
}

// InitiateUploadInput contains the input for starting a document upload
type InitiateUploadInput struct {
	TenantID    uuid.UUID
	ResidentID  uuid.UUID
	UploadedBy  uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	Category    string
}

// InitiateUploadResult contains the presigned upload URL for a new document
type InitiateUploadResult struct {
	Document  *resident.Document
	UploadURL string
	ExpiresAt time.Time
}

// DownloadResult contains the presigned download URL for a document
type DownloadResult struct {
	Document    *resident.Document
	DownloadURL string
	ExpiresAt   time.Time
}
