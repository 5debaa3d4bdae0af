package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	checkers map[string]func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// A nil checker reports its dependency as disconnected.
func NewHealthController(dbHealthChecker, redisHealthChecker func() bool) *HealthController {
	return &HealthController{
		checkers: map[string]func() bool{
			"database": dbHealthChecker,
			"redis":    redisHealthChecker,
		},
	}
}

func (h *HealthController) status(name string) string {
	if check := h.checkers[name]; check != nil && check() {
		return "connected"
	}
	return "disconnected"
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Database:  h.status("database"),
		Redis:     h.status("redis"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if response.Database != "connected" || response.Redis != "connected" {
		response.Status = "degraded"
	}

	c.JSON(http.StatusOK, response)
}
