package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/config"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 OpenShelf API v1.0 is running",
		"mode":    config.AppConfig.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check. Reports 503 when the database is
// unreachable so load balancers stop routing here.
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK
	dbStatus := "healthy"
	if err := config.HealthCheck(); err != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
		dbStatus = "unhealthy"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
	})
}
