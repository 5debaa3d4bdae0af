// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/checks-dashboard/backend/internal/integration/entrypoint/controller"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	checkController     *controller.CheckController
	dashboardController *controller.DashboardController
	writeRateLimiter    *middleware.RateLimiter
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	checkController *controller.CheckController,
	dashboardController *controller.DashboardController,
	writeRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:    healthController,
		checkController:     checkController,
		dashboardController: dashboardController,
		writeRateLimiter:    writeRateLimiter,
		authMiddleware:      authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	if r.checkController != nil {
		checks := v1.Group("/checks")
		{
			checks.GET("", r.checkController.List)
			checks.POST("", r.write(r.checkController.Create)...)
			checks.PATCH("/:id", r.write(r.checkController.Update)...)
			checks.DELETE("/:id", r.write(r.checkController.Delete)...)
		}

		removed := v1.Group("/removed-checks")
		{
			removed.GET("", r.checkController.ListRemoved)
			removed.POST("/:id/restore", r.write(r.checkController.Restore)...)
		}
	}

	if r.dashboardController != nil {
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("", r.dashboardController.Get)
			dashboard.GET("/stream", r.dashboardController.Stream)
		}
	}
}

// write prefixes a mutating handler with the write rate limiter when one is configured.
func (r *Router) write(handler gin.HandlerFunc) []gin.HandlerFunc {
	if r.writeRateLimiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{r.writeRateLimiter.Middleware(), handler}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
