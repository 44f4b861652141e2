// Package routes defines the HTTP routes for the admin console service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unifiedui/admin-console/internal/api/handlers"
	"github.com/unifiedui/admin-console/internal/api/middleware"
)

// BasePath is the prefix of every console API route.
const BasePath = "/api/v1/admin-console"

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler  *handlers.HealthHandler
	ConsoleHandler *handlers.ConsoleHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group(BasePath)
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		con := protected.Group("/console")
		{
			con.GET("", cfg.ConsoleHandler.Show)
			con.PUT("/search", cfg.ConsoleHandler.EditSearch)
			con.POST("/find", cfg.ConsoleHandler.FindUser)
			con.POST("/reset", cfg.ConsoleHandler.Reset)
			con.POST("/close", cfg.ConsoleHandler.Close)
			con.POST("/restore", cfg.ConsoleHandler.Restore)

			// Entitlements of the loaded user
			con.POST("/subscription", cfg.ConsoleHandler.GrantSubscription)
			con.PUT("/tokens", cfg.ConsoleHandler.UpdateTokens)

			features := con.Group("/features/:key")
			{
				features.PUT("", cfg.ConsoleHandler.SetFeature)
				features.POST("/toggle", cfg.ConsoleHandler.ToggleFeature)
				features.GET("/options", cfg.ConsoleHandler.ListOptions)
				features.PUT("/option", cfg.ConsoleHandler.SetFeatureFromOption)
			}

			panel := con.Group("/panel")
			{
				panel.POST("/toggle-collapse", cfg.ConsoleHandler.ToggleCollapse)
				panel.PUT("/collapsed", cfg.ConsoleHandler.SetCollapsed)
				panel.PUT("/position", cfg.ConsoleHandler.MovePanel)
			}
		}
	}

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, cors middleware.CORSConfig) {
	r.HandleMethodNotAllowed = true

	// Apply global middleware
	r.Use(loggingMw.RequestLogger())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(middleware.NewCORSMiddleware(cors))

	// Setup routes
	Setup(r, cfg)
}
