package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/writecarenotes/backend/internal/application/identity"
	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// UserHandler handles user and role administration
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=50"`
	Email       string   `json:"email" binding:"required,email,max=200"`
	DisplayName string   `json:"display_name" binding:"max=100"`
	Password    string   `json:"password" binding:"required,min=12"`
	RoleIDs     []string `json:"role_ids" binding:"omitempty,dive,uuid"`
}

// AssignRolesRequest is the request body for assigning roles to a user
type AssignRolesRequest struct {
	RoleIDs []string `json:"role_ids" binding:"required,dive,uuid"`
}

// CreateRoleRequest is the request body for creating a role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// UpdateRolePermissionsRequest is the request body for replacing a role's
// permissions
type UpdateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// UserResponse is the API shape of a user
type UserResponse struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name,omitempty"`
	Status       string     `json:"status"`
	RoleIDs      []string   `json:"role_ids"`
	FailedLogins int        `json:"failed_logins"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RoleResponse is the API shape of a role
type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	System      bool     `json:"system"`
}

func toUserResponse(u *identity.User) UserResponse {
	roleIDs := make([]string, 0, len(u.RoleIDs))
	for _, id := range u.RoleIDs {
		roleIDs = append(roleIDs, id.String())
	}
	return UserResponse{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Status:       string(u.Status),
		RoleIDs:      roleIDs,
		FailedLogins: u.FailedLogins,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func toRoleResponse(r *identity.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		System:      r.System,
	}
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Create creates a user in the caller's tenant
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	roleIDs, err := parseUUIDs(req.RoleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	createdBy, _ := getUserID(c)

	user, err := h.userService.CreateUser(c.Request.Context(), identityapp.CreateUserInput{
		TenantID:    tenantID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		RoleIDs:     roleIDs,
		CreatedBy:   createdBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUserResponse(user))
}

// Get returns a single user
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// List returns the tenant's users with pagination
func (h *UserHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), tenantID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, toUserResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, responses, result.Total, result.Page, result.PageSize)
}

// AssignRoles replaces a user's role assignments
func (h *UserHandler) AssignRoles(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	roleIDs, err := parseUUIDs(req.RoleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	err = h.userService.AssignRoles(c.Request.Context(), identityapp.AssignRolesInput{
		TenantID: tenantID,
		UserID:   id,
		RoleIDs:  roleIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Unlock clears a locked user's failed login counter
func (h *UserHandler) Unlock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.UnlockUser(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Disable disables a user account
func (h *UserHandler) Disable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DisableUser(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateRole creates a role in the caller's tenant
func (h *UserHandler) CreateRole(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	role, err := h.userService.CreateRole(c.Request.Context(), tenantID, req.Name, req.Description, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRoleResponse(role))
}

// ListRoles returns the tenant's roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	roles, err := h.userService.ListRoles(c.Request.Context(), tenantID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		responses = append(responses, toRoleResponse(&roles[i]))
	}
	h.Success(c, responses)
}

// UpdateRolePermissions replaces a role's permission set
func (h *UserHandler) UpdateRolePermissions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	roleID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	role, err := h.userService.UpdateRolePermissions(c.Request.Context(), tenantID, roleID, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoleResponse(role))
}
