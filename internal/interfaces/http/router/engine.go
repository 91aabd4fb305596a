package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// HealthPath is served without authentication and is not traced
const HealthPath = "/health"

// EngineConfig configures the middleware chain of NewEngine
type EngineConfig struct {
	ServiceName    string
	HTTP           config.HTTPConfig
	TracingEnabled bool
	Logger         *zap.Logger
}

// NewEngine returns a gin engine with the global middleware chain installed:
// panic recovery, request ids, access logging, security headers, CORS, the
// body size limit and tracing, in that order.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	chain := []gin.HandlerFunc{
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
	}
	if cfg.HTTP.MaxBodySize > 0 {
		chain = append(chain, middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	chain = append(chain, middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
		SkipPaths:   []string{HealthPath},
	}))
	engine.Use(chain...)
	return engine, nil
}
