package http

import (
	"time"

	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Tasks         *service.TaskService
	Store         handlers.Pinger
	Version       string
	APIRateLimit  int
	APIRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	h := handlers.NewHandler(deps.Tasks)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Version, deps.Tasks.Policy().Name())

	apiRateLimit := deps.APIRateLimit
	if apiRateLimit <= 0 {
		apiRateLimit = 120
	}
	apiRateWindow := deps.APIRateWindow
	if apiRateWindow <= 0 {
		apiRateWindow = time.Minute
	}

	r.Use(middleware.RequestID(), middleware.CORS(), middleware.Metrics())

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(apiRateLimit, apiRateWindow), middleware.JWT())
	registerTaskRoutes(v1, h)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.PATCH("/:id/status", h.UpdateTaskStatus)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
