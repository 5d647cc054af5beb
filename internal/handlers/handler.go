package handlers

import (
	"gridsim/internal/logger"
	"gridsim/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
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

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// WebSocket run stream, upgraded on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerSystemRoutes(api)
		h.registerRunRoutes(api)
	}
}

func (h *Handler) registerSystemRoutes(api *gin.RouterGroup) {
	systems := api.Group("/systems")
	{
		systems.POST("/", h.createSystem)
		systems.GET("/", h.listSystems)
		systems.GET("/:id", h.getSystem)
		systems.PUT("/:id", h.updateSystem)
		systems.DELETE("/:id", h.deleteSystem)
		systems.POST("/:id/simulate", h.simulateSystem)
	}
}

func (h *Handler) registerRunRoutes(api *gin.RouterGroup) {
	runs := api.Group("/runs")
	{
		runs.GET("/", h.listRuns)
		runs.GET("/latest", h.latestRun)
		runs.GET("/:id", h.getRun)
	}
}
