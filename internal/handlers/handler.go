package handlers

import (
	"hvac_control/internal/logger"
	"hvac_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Health endpoint
	router.GET("/health", h.health)

	// Device endpoints polled by the hub. These stay open: the hub has
	// no credential store and lives on the same LAN.
	h.registerDeviceRoutes(router)

	// Read-only endpoints for dashboards
	h.registerReadRoutes(router)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerDeviceRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/data", h.ingestData)
		api.GET("/hvac/command", h.getCommand)
		api.GET("/schedule/status", h.getScheduleStatus)
	}
}

func (h *Handler) registerReadRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/current", h.getCurrent)
		api.GET("/hvac", h.getHVAC)
		api.GET("/history", h.getHistory)
		api.GET("/schedule", h.getSchedule)
	}
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorAuth)
	{
		api.POST("/hvac/update", h.updateHVAC)
		api.POST("/schedule/update", h.updateSchedule)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
