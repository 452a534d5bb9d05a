package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/ytbuddy/internal/adapter/dto/common"
	"github.com/johnquangdev/ytbuddy/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	qaHandler    *QAHandler
	videoHandler *VideoHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, qaHandler *QAHandler, videoHandler *VideoHandler) *Router {
	return &Router{
		cfg:          cfg,
		qaHandler:    qaHandler,
		videoHandler: videoHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	api := e.Group("/api")
	rt.setupQARoutes(api)
	rt.setupVideoRoutes(api)
}

func (rt *Router) setupQARoutes(g *echo.Group) {
	if rt.qaHandler == nil {
		g.POST("/ask", rt.notImplemented)
		return
	}
	g.POST("/ask", rt.qaHandler.Ask)
}

func (rt *Router) setupVideoRoutes(g *echo.Group) {
	if rt.videoHandler == nil {
		g.POST("/analyze", rt.notImplemented)
		g.GET("/usage", rt.notImplemented)
		g.GET("/status/:video_id", rt.notImplemented)
		return
	}
	g.POST("/analyze", rt.videoHandler.Analyze)
	g.GET("/usage", rt.videoHandler.Usage)
	g.GET("/status/:video_id", rt.videoHandler.Status)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	resp := common.HealthResponse{Status: "ok", Time: time.Now().UTC()}
	if rt.cfg != nil {
		resp.Environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, resp)
}
