package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/johnquangdev/ytbuddy/internal/app"
	httpmw "github.com/johnquangdev/ytbuddy/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/ytbuddy/pkg/config"
	"github.com/johnquangdev/ytbuddy/pkg/logger"
	pkgvalidator "github.com/johnquangdev/ytbuddy/pkg/validator"
)

// @title           YouTube Buddy API
// @version         1.0
// @description     Ask questions about YouTube videos, answered from their transcripts
// @BasePath        /api
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Request id, then one zap access line per request. Recover sits inside
	// the access log so a panic is logged with its 500.
	e.Use(httpmw.EchoRequestContext())
	e.Use(httpmw.ZapAccessLog(zl))
	e.Use(httpmw.ZapRecover(zl))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")
	container, err := app.New(context.Background(), cfg, zl)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer container.Close()
	log.Printf("✅ Vector store: %s, cache: %s, model: %s", cfg.VectorStore.Kind, cfg.Cache.Backend, cfg.LLM.Model)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	container.Handlers().Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
