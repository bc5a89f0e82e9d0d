package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/auth"
	"github.com/writecarenotes/backend/internal/infrastructure/config"
)

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Role, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type authFixture struct {
	tenantRepo *MockTenantRepository
	userRepo   *MockUserRepository
	roleRepo   *MockRoleRepository
	blacklist  *auth.InMemoryTokenBlacklist
	service    *AuthService
	tenant     *identity.Tenant
	user       *identity.User
	role       *identity.Role
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tenant, err := identity.NewTenant("OAKWOOD", "Oakwood Care Group", identity.TenantPlanStandard)
	require.NoError(t, err)

	user, err := identity.NewUser(tenant.ID, "jane.doe", "jane@oakwood.example", "Jane Doe", "correct-horse-battery")
	require.NoError(t, err)

	role, err := identity.NewRole(tenant.ID, "Care Manager", "", []string{
		identity.PermResidentRead, identity.PermResidentWrite,
	})
	require.NoError(t, err)
	user.AssignRoles([]uuid.UUID{role.ID})

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "unit-test-secret-key-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "carenotes-test",
	})

	f := &authFixture{
		tenantRepo: new(MockTenantRepository),
		userRepo:   new(MockUserRepository),
		roleRepo:   new(MockRoleRepository),
		blacklist:  auth.NewInMemoryTokenBlacklist(),
		tenant:     tenant,
		user:       user,
		role:       role,
	}
	f.service = NewAuthService(f.tenantRepo, f.userRepo, f.roleRepo, jwtService, f.blacklist, zap.NewNop())
	return f
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.tenantRepo.On("FindByCode", ctx, "OAKWOOD").Return(f.tenant, nil)
	f.userRepo.On("FindByUsername", ctx, f.tenant.ID, "jane.doe").Return(f.user, nil)
	f.roleRepo.On("FindByIDs", ctx, f.tenant.ID, f.user.RoleIDs).Return([]identity.Role{*f.role}, nil)
	f.userRepo.On("Save", ctx, f.user).Return(nil)

	result, err := f.service.Login(ctx, LoginInput{
		TenantCode: "OAKWOOD",
		Username:   "jane.doe",
		Password:   "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "jane.doe", result.User.Username)
	assert.Contains(t, result.User.Permissions, identity.PermResidentRead)
	assert.NotNil(t, f.user.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.tenantRepo.On("FindByCode", ctx, "OAKWOOD").Return(f.tenant, nil)
	f.userRepo.On("FindByUsername", ctx, f.tenant.ID, "jane.doe").Return(f.user, nil)
	f.userRepo.On("Save", ctx, f.user).Return(nil)

	_, err := f.service.Login(ctx, LoginInput{
		TenantCode: "OAKWOOD",
		Username:   "jane.doe",
		Password:   "wrong-password",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, 1, f.user.FailedLogins)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.tenantRepo.On("FindByCode", ctx, "OAKWOOD").Return(f.tenant, nil)
	f.userRepo.On("FindByUsername", ctx, f.tenant.ID, "jane.doe").Return(f.user, nil)
	f.userRepo.On("Save", ctx, f.user).Return(nil)

	input := LoginInput{TenantCode: "OAKWOOD", Username: "jane.doe", Password: "wrong-password"}
	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = f.service.Login(ctx, input)
	}

	var domainErr *shared.DomainError
	require.ErrorAs(t, lastErr, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.Equal(t, identity.UserStatusLocked, f.user.Status)

	// even the correct password is rejected once locked
	input.Password = "correct-horse-battery"
	_, err := f.service.Login(ctx, input)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestLogin_SuspendedTenant(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tenant.Suspend())
	f.tenantRepo.On("FindByCode", ctx, "OAKWOOD").Return(f.tenant, nil)

	_, err := f.service.Login(ctx, LoginInput{
		TenantCode: "OAKWOOD",
		Username:   "jane.doe",
		Password:   "correct-horse-battery",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TENANT_INACTIVE", domainErr.Code)
}

func TestLogin_UnknownTenant(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.tenantRepo.On("FindByCode", ctx, "NOWHERE").Return(nil, shared.ErrNotFound)

	_, err := f.service.Login(ctx, LoginInput{
		TenantCode: "NOWHERE",
		Username:   "jane.doe",
		Password:   "correct-horse-battery",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	// deliberately indistinguishable from a bad password
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestRefresh_RotatesAndRevokesOldToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.tenantRepo.On("FindByCode", ctx, "OAKWOOD").Return(f.tenant, nil)
	f.userRepo.On("FindByUsername", ctx, f.tenant.ID, "jane.doe").Return(f.user, nil)
	f.userRepo.On("FindByIDForTenant", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)
	f.roleRepo.On("FindByIDs", ctx, f.tenant.ID, f.user.RoleIDs).Return([]identity.Role{*f.role}, nil)
	f.userRepo.On("Save", ctx, f.user).Return(nil)

	login, err := f.service.Login(ctx, LoginInput{
		TenantCode: "OAKWOOD",
		Username:   "jane.doe",
		Password:   "correct-horse-battery",
	})
	require.NoError(t, err)

	pair, err := f.service.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// the first refresh token is now revoked
	_, err = f.service.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestLogout_BlacklistsToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.Logout(ctx, LogoutInput{
		TokenJTI:  "some-jti",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	revoked, err := f.blacklist.IsBlacklisted(ctx, "some-jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.userRepo.On("FindByIDForTenant", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)
	f.userRepo.On("SaveWithLock", ctx, f.user).Return(nil)

	err := f.service.ChangePassword(ctx, ChangePasswordInput{
		TenantID:    f.tenant.ID,
		UserID:      f.user.ID,
		OldPassword: "correct-horse-battery",
		NewPassword: "an-even-better-passphrase",
	})
	require.NoError(t, err)
	assert.True(t, f.user.CheckPassword("an-even-better-passphrase"))

	err = f.service.ChangePassword(ctx, ChangePasswordInput{
		TenantID:    f.tenant.ID,
		UserID:      f.user.ID,
		OldPassword: "correct-horse-battery",
		NewPassword: "whatever-new-password",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}
