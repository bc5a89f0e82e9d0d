package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// TenantAggregateRoot extends BaseAggregateRoot with multi-tenant scoping.
// CareHomeID is set for records that belong to a single facility within the
// tenant; records owned by the organization itself leave it nil.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CareHomeID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index"`
	UpdatedBy  *uuid.UUID `gorm:"type:uuid"`
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// NewCareHomeAggregateRoot creates an aggregate root scoped to a care home
func NewCareHomeAggregateRoot(tenantID, careHomeID uuid.UUID) TenantAggregateRoot {
	root := NewTenantAggregateRoot(tenantID)
	root.CareHomeID = &careHomeID
	return root
}

// SetCreatedBy sets the creating actor
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

// SetUpdatedBy sets the last modifying actor
func (t *TenantAggregateRoot) SetUpdatedBy(userID uuid.UUID) {
	t.UpdatedBy = &userID
}

// BelongsToCareHome reports whether the record is scoped to the given care home
func (t *TenantAggregateRoot) BelongsToCareHome(careHomeID uuid.UUID) bool {
	return t.CareHomeID != nil && *t.CareHomeID == careHomeID
}
