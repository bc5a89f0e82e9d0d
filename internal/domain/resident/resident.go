package resident

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ResidentStatus represents the resident's position in the admission lifecycle
type ResidentStatus string

const (
	ResidentStatusEnquiry    ResidentStatus = "enquiry"
	ResidentStatusAdmitted   ResidentStatus = "admitted"
	ResidentStatusDischarged ResidentStatus = "discharged"
	ResidentStatusDeceased   ResidentStatus = "deceased"
)

// CareLevel represents the commissioned level of care
type CareLevel string

const (
	CareLevelResidential CareLevel = "residential"
	CareLevelNursing     CareLevel = "nursing"
	CareLevelDementia    CareLevel = "dementia"
	CareLevelRespite     CareLevel = "respite"
)

// NextOfKin holds the primary emergency contact for a resident
type NextOfKin struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Resident is the aggregate root for a person receiving care. Clinical and
// billing records reference residents by ID.
type Resident struct {
	shared.TenantAggregateRoot
	NHSNumber     string         `gorm:"type:varchar(10);index"`
	FirstName     string         `gorm:"type:varchar(100);not null"`
	LastName      string         `gorm:"type:varchar(100);not null"`
	DateOfBirth   time.Time      `gorm:"type:date;not null"`
	Status        ResidentStatus `gorm:"type:varchar(20);not null;default:'enquiry'"`
	CareLevel     CareLevel      `gorm:"type:varchar(20);not null;default:'residential'"`
	Room          string         `gorm:"type:varchar(20)"`
	GPName        string         `gorm:"type:varchar(200)"`
	GPPractice    string         `gorm:"type:varchar(200)"`
	NextOfKin     NextOfKin      `gorm:"serializer:json"`
	AdmittedAt    *time.Time     `gorm:"type:date"`
	DischargedAt  *time.Time     `gorm:"type:date"`
	DischargeNote string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Resident) TableName() string {
	return "residents"
}

// NewResident creates a resident record in the enquiry state
func NewResident(tenantID, careHomeID uuid.UUID, firstName, lastName, nhsNumber string, dateOfBirth time.Time, careLevel CareLevel) (*Resident, error) {
	if firstName = strings.TrimSpace(firstName); firstName == "" || len(firstName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "First name must be 1-100 characters")
	}
	if lastName = strings.TrimSpace(lastName); lastName == "" || len(lastName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name must be 1-100 characters")
	}
	nhsNumber = strings.ReplaceAll(strings.TrimSpace(nhsNumber), " ", "")
	if nhsNumber != "" && !shared.ValidNHSNumber(nhsNumber) {
		return nil, shared.NewDomainError("INVALID_NHS_NUMBER", "NHS number failed format or check digit validation")
	}
	if dateOfBirth.IsZero() || dateOfBirth.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_DATE_OF_BIRTH", "Date of birth must be in the past")
	}
	if err := validateCareLevel(careLevel); err != nil {
		return nil, err
	}

	return &Resident{
		TenantAggregateRoot: shared.NewCareHomeAggregateRoot(tenantID, careHomeID),
		NHSNumber:           nhsNumber,
		FirstName:           firstName,
		LastName:            lastName,
		DateOfBirth:         dateOfBirth,
		Status:              ResidentStatusEnquiry,
		CareLevel:           careLevel,
	}, nil
}

func validateCareLevel(level CareLevel) error {
	switch level {
	case CareLevelResidential, CareLevelNursing, CareLevelDementia, CareLevelRespite:
		return nil
	}
	return shared.NewDomainError("INVALID_CARE_LEVEL", "Unknown care level")
}

// FullName returns the resident's display name
func (r *Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Admit moves an enquiry into residence, assigning a room
func (r *Resident) Admit(room string, admittedAt time.Time) error {
	if r.Status != ResidentStatusEnquiry {
		return shared.NewDomainError("INVALID_STATE", "Only an enquiry can be admitted")
	}
	if room = strings.TrimSpace(room); room == "" {
		return shared.NewDomainError("INVALID_ROOM", "Room is required on admission")
	}
	r.Status = ResidentStatusAdmitted
	r.Room = room
	r.AdmittedAt = &admittedAt
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// TransferRoom moves an admitted resident to a different room
func (r *Resident) TransferRoom(room string) error {
	if r.Status != ResidentStatusAdmitted {
		return shared.NewDomainError("INVALID_STATE", "Only an admitted resident can be transferred")
	}
	if room = strings.TrimSpace(room); room == "" {
		return shared.NewDomainError("INVALID_ROOM", "Room cannot be empty")
	}
	if room == r.Room {
		return shared.NewDomainError("SAME_ROOM", "Resident already occupies that room")
	}
	r.Room = room
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Discharge ends the residency
func (r *Resident) Discharge(at time.Time, note string) error {
	if r.Status != ResidentStatusAdmitted {
		return shared.NewDomainError("INVALID_STATE", "Only an admitted resident can be discharged")
	}
	if r.AdmittedAt != nil && at.Before(*r.AdmittedAt) {
		return shared.NewDomainError("INVALID_DISCHARGE_DATE", "Discharge date cannot precede admission")
	}
	r.Status = ResidentStatusDischarged
	r.DischargedAt = &at
	r.DischargeNote = note
	r.Room = ""
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// RecordDeath closes the record following a death in residence
func (r *Resident) RecordDeath(at time.Time) error {
	if r.Status != ResidentStatusAdmitted {
		return shared.NewDomainError("INVALID_STATE", "Only an admitted resident can be recorded as deceased")
	}
	r.Status = ResidentStatusDeceased
	r.DischargedAt = &at
	r.Room = ""
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// SetGP sets the resident's GP details
func (r *Resident) SetGP(name, practice string) {
	r.GPName = name
	r.GPPractice = practice
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetNextOfKin sets the primary emergency contact
func (r *Resident) SetNextOfKin(kin NextOfKin) error {
	if kin.Phone != "" && !shared.ValidUKPhone(kin.Phone) {
		return shared.NewDomainError("INVALID_PHONE", "Next of kin phone is not a valid UK number")
	}
	r.NextOfKin = kin
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// IsResident reports whether the person currently lives in the home
func (r *Resident) IsResident() bool {
	return r.Status == ResidentStatusAdmitted
}
