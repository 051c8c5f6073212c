// Package http assembles the gin route tree and the server around it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/prometheus"
	"github.com/accelari/trademarkiq2-sub002/internal/interfaces/http/handlers"
	"github.com/accelari/trademarkiq2-sub002/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered; nil
// infrastructure degrades to no-ops.
type RouterConfig struct {
	DetectionHandler    *handlers.DetectionHandler
	JurisdictionHandler *handlers.JurisdictionHandler
	VariantHandler      *handlers.VariantHandler
	HealthHandler       *handlers.HealthHandler

	CORS *middleware.CORSConfig

	Logger         logging.Logger
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler

	// Mode is the gin mode: debug, release, or test.
	Mode string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics, "/healthz", "/readyz", "/metrics"))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	{
		if cfg.DetectionHandler != nil {
			api.POST("/detections", cfg.DetectionHandler.Check)
		}
		if cfg.VariantHandler != nil {
			api.POST("/variants", cfg.VariantHandler.Generate)
		}
		if cfg.JurisdictionHandler != nil {
			api.GET("/offices/:country", cfg.JurisdictionHandler.Offices)
		}
	}

	return r
}
