package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

// PermissionConfig holds configuration for the permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a single permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that passes when the caller holds
// at least one of the listed permissions. Tokens carrying "*" pass every
// check.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig creates permission middleware with custom
// configuration
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, permissions, "No authentication claims found")
			return
		}

		granted := false
		for _, perm := range permissions {
			if claims.HasPermission(perm) {
				granted = true
				break
			}
		}
		if !granted {
			handlePermissionDenied(c, cfg, permissions, "User lacks required permission")
			return
		}

		c.Next()
	}
}

// RequireResource creates middleware that checks a resource permission with
// the action derived from the HTTP method: GET maps to read, POST to create,
// PUT and PATCH to update, DELETE to delete.
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := resource + ":" + methodToAction(c.Request.Method)

		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, PermissionConfig{}, []string{permission}, "No authentication claims found")
			return
		}
		if !claims.HasPermission(permission) {
			handlePermissionDenied(c, PermissionConfig{}, []string{permission}, "User lacks required permission for resource")
			return
		}

		c.Next()
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "access"
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, required []string, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", GetJWTUserID(c)),
			zap.Strings("required", required),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path))
	}

	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
			"You do not have permission to perform this action", GetRequestID(c)))
}
