package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthRouter(p Pinger) *gin.Engine {
	r := newTestRouter(uuid.Nil)
	r.GET("/health", NewHealthHandler(p, "1.2.3").Check)
	return r
}

func TestHealthHandler_Check(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		w := doJSON(t, healthRouter(pingFunc(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		})), http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got HealthResponse
		decodeData(t, w, &got)
		assert.Equal(t, HealthResponse{Status: "ok", Database: "up", Version: "1.2.3"}, got)
	})

	t.Run("database down", func(t *testing.T) {
		w := doJSON(t, healthRouter(pingFunc(func(context.Context) error {
			return errors.New("connection refused")
		})), http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Contains(t, string(env.Data), `"database":"down"`)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
