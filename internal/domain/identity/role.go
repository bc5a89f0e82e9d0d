package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Permission strings follow "resource:action", e.g. "resident:read".
const (
	PermResidentRead    = "resident:read"
	PermResidentWrite   = "resident:write"
	PermMedicationRead  = "medication:read"
	PermMedicationWrite = "medication:write"
	PermHRRead          = "hr:read"
	PermHRWrite         = "hr:write"
	PermPayrollRead     = "payroll:read"
	PermPayrollRun      = "payroll:run"
	PermFinanceRead     = "finance:read"
	PermFinanceWrite    = "finance:write"
	PermComplianceRead  = "compliance:read"
	PermComplianceWrite = "compliance:write"
	PermFamilyRead      = "family:read"
	PermFamilyWrite     = "family:write"
	PermPilotReview     = "pilot:review"
	PermTenantAdmin     = "tenant:admin"
)

// Role is a named permission set within a tenant
type Role struct {
	shared.TenantAggregateRoot
	Name        string   `gorm:"type:varchar(100);not null;uniqueIndex:idx_role_tenant_name,priority:2"`
	Description string   `gorm:"type:text"`
	Permissions []string `gorm:"serializer:json"`
	System      bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a new role with the given permission set
func NewRole(tenantID uuid.UUID, name, description string, permissions []string) (*Role, error) {
	if name = strings.TrimSpace(name); name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name must be 1-100 characters")
	}
	for _, p := range permissions {
		if p != "*" && !strings.Contains(p, ":") {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "Permissions must be of the form resource:action")
		}
	}

	return &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		Permissions:         permissions,
	}, nil
}

// HasPermission reports whether the role grants the given permission
func (r *Role) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm || p == "*" {
			return true
		}
	}
	return false
}

// SetPermissions replaces the role's permission set
func (r *Role) SetPermissions(permissions []string) error {
	if r.System {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be modified")
	}
	for _, p := range permissions {
		if !strings.Contains(p, ":") && p != "*" {
			return shared.NewDomainError("INVALID_PERMISSION", "Permissions must be of the form resource:action")
		}
	}
	r.Permissions = permissions
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
