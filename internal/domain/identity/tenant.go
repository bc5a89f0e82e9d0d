package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/writecarenotes/backend/internal/domain/shared"
)

// TenantStatus represents the lifecycle status of a tenant organization
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusClosed    TenantStatus = "closed"
)

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanPilot      TenantPlan = "pilot"
	TenantPlanStandard   TenantPlan = "standard"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

var tenantCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,48}[A-Z0-9]$`)

// Tenant is a care-home operator organization. It is the top-level scoping
// unit for multi-tenant data isolation.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan         TenantPlan   `gorm:"type:varchar(20);not null;default:'standard'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant registers a new tenant organization
func NewTenant(code, name string, plan TenantPlan) (*Tenant, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !tenantCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be 3-50 characters of letters, digits and hyphens")
	}
	if name = strings.TrimSpace(name); name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name must be 1-200 characters")
	}
	switch plan {
	case TenantPlanPilot, TenantPlanStandard, TenantPlanEnterprise:
	default:
		return nil, shared.NewDomainError("INVALID_TENANT_PLAN", "Unknown subscription plan")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            TenantStatusActive,
		Plan:              plan,
	}, nil
}

// Update updates the tenant's display name and contact details
func (t *Tenant) Update(name, contactName, contactEmail, contactPhone string) error {
	if name = strings.TrimSpace(name); name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name must be 1-200 characters")
	}
	t.Name = name
	t.ContactName = contactName
	t.ContactEmail = strings.ToLower(contactEmail)
	t.ContactPhone = contactPhone
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Suspend marks the tenant as suspended; suspended tenants cannot log in
func (t *Tenant) Suspend() error {
	if t.Status != TenantStatusActive {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Activate reactivates a suspended tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusClosed {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Close permanently closes the tenant
func (t *Tenant) Close() {
	t.Status = TenantStatusClosed
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// IsActive returns true if the tenant can use the service
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
