package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser(uuid.New(), "jane.doe", "jane.doe@oakwood.example", "Jane Doe", "s3cret-pass-phrase")
	require.NoError(t, err)
	return user
}

func TestNewUser_HashesPassword(t *testing.T) {
	user := newTestUser(t)
	assert.NotEqual(t, "s3cret-pass-phrase", user.PasswordHash)
	assert.True(t, user.CheckPassword("s3cret-pass-phrase"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestNewUser_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewUser(tenantID, "x", "a@b.example", "A B", "long-enough-pass")
	assert.Error(t, err, "short username")

	_, err = NewUser(tenantID, "jane.doe", "not-an-email", "Jane Doe", "long-enough-pass")
	assert.Error(t, err, "bad email")

	_, err = NewUser(tenantID, "jane.doe", "a@b.example", "Jane Doe", "short")
	assert.Error(t, err, "short password")
}

func TestUser_LockoutAfterRepeatedFailures(t *testing.T) {
	user := newTestUser(t)

	for i := 0; i < 4; i++ {
		user.RecordFailedLogin()
		assert.Equal(t, UserStatusActive, user.Status)
	}
	user.RecordFailedLogin()
	assert.Equal(t, UserStatusLocked, user.Status)
	assert.False(t, user.CanLogIn())

	user.Unlock()
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Zero(t, user.FailedLogins)
}

func TestUser_RecordLoginResetsFailures(t *testing.T) {
	user := newTestUser(t)
	user.RecordFailedLogin()
	user.RecordFailedLogin()

	user.RecordLogin()
	assert.Zero(t, user.FailedLogins)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_ChangePassword(t *testing.T) {
	user := newTestUser(t)

	require.NoError(t, user.ChangePassword("another-long-password"))
	assert.True(t, user.CheckPassword("another-long-password"))
	assert.False(t, user.CheckPassword("s3cret-pass-phrase"))

	assert.Error(t, user.ChangePassword("short"))
}

func TestRole_Permissions(t *testing.T) {
	role, err := NewRole(uuid.New(), "Care Manager", "day to day resident care", []string{PermResidentRead, PermResidentWrite})
	require.NoError(t, err)

	assert.True(t, role.HasPermission(PermResidentRead))
	assert.False(t, role.HasPermission(PermPayrollRun))

	admin, err := NewRole(uuid.New(), "Admin", "", []string{"*"})
	require.NoError(t, err)
	assert.True(t, admin.HasPermission(PermPayrollRun))
}

func TestRole_SystemRoleImmutable(t *testing.T) {
	role, err := NewRole(uuid.New(), "Built-in", "", []string{PermResidentRead})
	require.NoError(t, err)
	role.System = true

	assert.Error(t, role.SetPermissions([]string{"*"}))
}
