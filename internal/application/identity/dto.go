package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantCode string
	Username   string
	Password   string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Permissions []string
}

// RefreshInput contains the input for token refresh
type RefreshInput struct {
	RefreshToken string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	TokenJTI  string
	ExpiresAt time.Time
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateTenantInput contains the input for tenant onboarding
type CreateTenantInput struct {
	Code string
	Name string
	Plan string
}

// UpdateTenantInput contains the input for tenant updates
type UpdateTenantInput struct {
	TenantID uuid.UUID
	Name     string
}

// CreateCareHomeInput contains the input for registering a care home
type CreateCareHomeInput struct {
	TenantID      uuid.UUID
	Name          string
	CQCProviderID string
	AddressLine1  string
	City          string
	Postcode      string
	BedCount      int
}

// CreateUserInput contains the input for user creation
type CreateUserInput struct {
	TenantID    uuid.UUID
	Username    string
	Email       string
	DisplayName string
	Password    string
	RoleIDs     []uuid.UUID
	CreatedBy   uuid.UUID
}

// AssignRolesInput contains the input for role assignment
type AssignRolesInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	RoleIDs  []uuid.UUID
}
