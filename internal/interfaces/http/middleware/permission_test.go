package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/writecarenotes/backend/internal/infrastructure/auth"
)

func performWithClaims(t *testing.T, mw gin.HandlerFunc, method string, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(JWTClaimsKey, claims)
		}
		c.Next()
	})
	engine.Use(mw)
	engine.Handle(method, "/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/", nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAnyPermission(t *testing.T) {
	t.Run("passes when one permission matches", func(t *testing.T) {
		claims := &auth.Claims{Permissions: []string{"resident:read"}}
		w := performWithClaims(t, RequireAnyPermission("resident:read", "resident:create"), http.MethodGet, claims)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wildcard grants everything", func(t *testing.T) {
		claims := &auth.Claims{Permissions: []string{"*"}}
		w := performWithClaims(t, RequireAnyPermission("payroll:approve"), http.MethodGet, claims)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects when nothing matches", func(t *testing.T) {
		claims := &auth.Claims{Permissions: []string{"resident:read"}}
		w := performWithClaims(t, RequireAnyPermission("payroll:approve"), http.MethodGet, claims)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects without claims", func(t *testing.T) {
		w := performWithClaims(t, RequireAnyPermission("resident:read"), http.MethodGet, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireResource(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		permission string
		want       int
	}{
		{"GET needs read", http.MethodGet, "resident:read", http.StatusOK},
		{"POST needs create", http.MethodPost, "resident:create", http.StatusOK},
		{"PUT needs update", http.MethodPut, "resident:update", http.StatusOK},
		{"DELETE needs delete", http.MethodDelete, "resident:delete", http.StatusOK},
		{"read permission does not allow create", http.MethodPost, "resident:read", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &auth.Claims{Permissions: []string{tt.permission}}
			w := performWithClaims(t, RequireResource("resident"), tt.method, claims)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
