// Package main is the entry point for the UnifiedUI Admin Console Service.
// @title UnifiedUI Admin Console API
// @version 1.0
// @description Operator console for looking up users and managing their subscription, token balance and feature flags
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/unifiedui/admin-console

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer console key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unifiedui/admin-console/docs"
	"github.com/unifiedui/admin-console/internal/api/handlers"
	"github.com/unifiedui/admin-console/internal/api/middleware"
	"github.com/unifiedui/admin-console/internal/api/routes"
	"github.com/unifiedui/admin-console/internal/app"
	"github.com/unifiedui/admin-console/internal/config"
	"github.com/unifiedui/admin-console/internal/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.Setup(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()

	console, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize admin console")
	}
	defer console.Close()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	router := setupRouter(cfg, console)

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, console *app.App) *gin.Engine {
	router := gin.New()

	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(cfg.Server.APIKey)

	routesCfg := &routes.Config{
		HealthHandler:  handlers.NewHealthHandler(console.Store, console.Vault),
		ConsoleHandler: handlers.NewConsoleHandler(console.Console),
		AuthMiddleware: authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, middleware.DefaultCORSConfig(cfg.Server.CORSOrigins))

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
