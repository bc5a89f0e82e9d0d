package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// UserService handles staff account and role administration
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// CreateUser creates a staff account and optionally assigns roles
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*identity.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.TenantID, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "A user with this username already exists")
	}

	user, err := identity.NewUser(input.TenantID, input.Username, input.Email, input.DisplayName, input.Password)
	if err != nil {
		return nil, err
	}
	if len(input.RoleIDs) > 0 {
		roles, err := s.roleRepo.FindByIDs(ctx, input.TenantID, input.RoleIDs)
		if err != nil {
			return nil, err
		}
		if len(roles) != len(input.RoleIDs) {
			return nil, shared.NewDomainError("UNKNOWN_ROLE", "One or more roles do not exist")
		}
		user.AssignRoles(input.RoleIDs)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	return user, nil
}

// GetUser retrieves a user within a tenant
func (s *UserService) GetUser(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListUsers lists a tenant's users with pagination
func (s *UserService) ListUsers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(users, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AssignRoles replaces a user's role set
func (s *UserService) AssignRoles(ctx context.Context, input AssignRolesInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return err
	}
	if len(input.RoleIDs) > 0 {
		roles, err := s.roleRepo.FindByIDs(ctx, input.TenantID, input.RoleIDs)
		if err != nil {
			return err
		}
		if len(roles) != len(input.RoleIDs) {
			return shared.NewDomainError("UNKNOWN_ROLE", "One or more roles do not exist")
		}
	}
	user.AssignRoles(input.RoleIDs)
	return s.userRepo.SaveWithLock(ctx, user)
}

// UnlockUser clears an account lockout
func (s *UserService) UnlockUser(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	user.Unlock()
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User unlocked",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", id.String()))
	return nil
}

// DisableUser deactivates an account
func (s *UserService) DisableUser(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	user.Disable()
	return s.userRepo.SaveWithLock(ctx, user)
}

// CreateRole creates a named permission set
func (s *UserService) CreateRole(ctx context.Context, tenantID uuid.UUID, name, description string, permissions []string) (*identity.Role, error) {
	role, err := identity.NewRole(tenantID, name, description, permissions)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles lists a tenant's roles
func (s *UserService) ListRoles(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Role, error) {
	return s.roleRepo.FindAllForTenant(ctx, tenantID, filter)
}

// UpdateRolePermissions replaces a role's permission set
func (s *UserService) UpdateRolePermissions(ctx context.Context, tenantID, roleID uuid.UUID, permissions []string) (*identity.Role, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	if err := role.SetPermissions(permissions); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}
