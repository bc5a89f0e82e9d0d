package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/interfaces/http/dto"
)

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(Recovery(zap.NewNop()))
	engine.GET("/panic", func(c *gin.Context) {
		panic("something went badly wrong")
	})
	engine.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("converts panic to 500 JSON response", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
		// Panic details must not leak to the client
		assert.NotContains(t, resp.Error.Message, "something went badly wrong")
	})

	t.Run("leaves normal requests alone", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
