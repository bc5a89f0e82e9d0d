package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
	UserStatusLocked   UserStatus = "locked"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,49}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// maxFailedLogins is the number of consecutive failures before lockout
const maxFailedLogins = 5

// User is a staff account within a tenant
type User struct {
	shared.TenantAggregateRoot
	Username     string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Email        string      `gorm:"type:varchar(200);not null;index"`
	DisplayName  string      `gorm:"type:varchar(100)"`
	PasswordHash string      `gorm:"type:varchar(100);not null"`
	Status       UserStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	RoleIDs      []uuid.UUID `gorm:"-"`
	FailedLogins int         `gorm:"not null;default:0"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a bcrypt-hashed password
func NewUser(tenantID uuid.UUID, username, email, displayName, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 lowercase letters, digits, dots, underscores or hyphens")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) || len(email) > 200 {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if len(password) < 10 {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 10 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		Email:               email,
		DisplayName:         displayName,
		PasswordHash:        string(hash),
		Status:              UserStatusActive,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password hash after validating the new password
func (u *User) ChangePassword(newPassword string) error {
	if len(newPassword) < 10 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 10 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin resets the failure counter and stamps the login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.FailedLogins = 0
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// RecordFailedLogin increments the failure counter, locking the account
// once the limit is reached.
func (u *User) RecordFailedLogin() {
	u.FailedLogins++
	if u.FailedLogins >= maxFailedLogins {
		u.Status = UserStatusLocked
	}
	u.UpdatedAt = time.Now()
}

// Unlock clears a lockout
func (u *User) Unlock() {
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
	}
	u.FailedLogins = 0
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Disable deactivates the account
func (u *User) Disable() {
	u.Status = UserStatusDisabled
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// AssignRoles replaces the user's role set
func (u *User) AssignRoles(roleIDs []uuid.UUID) {
	u.RoleIDs = roleIDs
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// CanLogIn returns true if the account is usable for authentication
func (u *User) CanLogIn() bool {
	return u.Status == UserStatusActive
}
