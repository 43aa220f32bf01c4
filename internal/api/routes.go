package api

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/github-profile-api/internal/logging"
)

// RouterConfig holds the settings the router needs beyond the handler
type RouterConfig struct {
	// ProxySecret is required on every non-health request when set
	ProxySecret string
	Logger      *log.Logger
}

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(RequestID())
	router.Use(Logger(cfg.Logger))
	router.Use(CORS())

	// Health check
	router.GET("/health", handler.HealthCheck)

	protected := router.Group("/", ProxySecret(cfg.ProxySecret))
	{
		protected.GET("/profile/:username", handler.GetProfile)
		protected.GET("/repos/:username", handler.GetRepositories)
	}

	return router
}
