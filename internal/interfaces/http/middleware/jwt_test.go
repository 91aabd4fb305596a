package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-characters",
		Issuer: "pos-test",
	})
}

type actorSeen struct {
	actor     uuid.UUID
	ctxUserID string
}

func newJWTRouter(svc *auth.JWTService, seen *actorSeen) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthWithConfig(JWTMiddlewareConfig{
		Validator: svc,
		SkipPaths: []string{"/health"},
	}))
	router.GET("/invoices", func(c *gin.Context) {
		seen.actor, _ = GetActorID(c)
		seen.ctxUserID = logger.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	token, err := svc.IssueAccessToken(userID, "cashier", time.Hour)
	require.NoError(t, err)

	seen := &actorSeen{}
	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	newJWTRouter(svc, seen).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen.actor)
	assert.Equal(t, userID.String(), seen.ctxUserID)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService()
	expired, err := svc.IssueAccessToken(uuid.New(), "cashier", -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.NewJWTService(config.JWTConfig{
		Secret: "another-secret-key-at-least-32-chars",
		Issuer: "pos-test",
	}).IssueAccessToken(uuid.New(), "x", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.CodeUnauthorized},
		{"not a bearer token", "Basic dXNlcjpwYXNz", dto.CodeUnauthorized},
		{"empty bearer token", BearerPrefix, dto.CodeUnauthorized},
		{"garbage token", BearerPrefix + "not.a.jwt", dto.CodeUnauthorized},
		{"wrong signing key", BearerPrefix + foreign, dto.CodeUnauthorized},
		{"expired token", BearerPrefix + expired, dto.CodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			newJWTRouter(svc, &actorSeen{}).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	w := httptest.NewRecorder()
	newJWTRouter(newTestJWTService(), &actorSeen{}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetActorID_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetActorID(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))
}
