package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionChecker resolves whether a user holds a permission slug
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, slug string) (bool, error)
}

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Checker PermissionChecker
	Logger  *zap.Logger
}

// Permissions builds RequirePermission handlers that share one checker
type Permissions struct {
	cfg PermissionConfig
}

// NewPermissions creates a Permissions guard factory
func NewPermissions(checker PermissionChecker, log *zap.Logger) *Permissions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Permissions{cfg: PermissionConfig{Checker: checker, Logger: log}}
}

// Require returns middleware that lets the request through only when the
// actor holds slug. It must run after JWTAuth.
func (p *Permissions) Require(slug string) gin.HandlerFunc {
	return RequirePermissionWithConfig(slug, p.cfg)
}

// RequirePermissionWithConfig creates middleware requiring slug
func RequirePermissionWithConfig(slug string, cfg PermissionConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		actorID, ok := GetActorID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.CodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		allowed, err := cfg.Checker.HasPermission(c.Request.Context(), actorID, slug)
		if err != nil {
			cfg.Logger.Error("Permission lookup failed",
				zap.String("user_id", actorID.String()),
				zap.String("permission", slug),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.CodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}
		if !allowed {
			cfg.Logger.Warn("Permission denied",
				zap.String("user_id", actorID.String()),
				zap.String("permission", slug),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.CodeForbidden, "Access denied: missing permission "+slug, GetRequestID(c)))
			return
		}

		c.Next()
	}
}
