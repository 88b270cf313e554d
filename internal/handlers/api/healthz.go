package api

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"gontrel-admin/internal/db"
	"gontrel-admin/internal/engine"
	"gontrel-admin/internal/models"
)

// HealthzHandler reports service health: database connectivity and
// reachability of the Gontrel platform API.
type HealthzHandler struct {
	db  *db.DB
	api engine.PlatformAPI
}

// NewHealthzHandler creates a new health handler.
func NewHealthzHandler(database *db.DB, api engine.PlatformAPI) *HealthzHandler {
	return &HealthzHandler{db: database, api: api}
}

// Check returns 200 when healthy and 503 when a dependency is down. The
// response body names the failing dependency.
func (h *HealthzHandler) Check(c fiber.Ctx) error {
	ctx := c.Context()

	checks := fiber.Map{
		"database": "ok",
		"platform": "ok",
	}
	healthy := true

	if err := h.db.Pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	start := time.Now()
	if _, err := h.api.FetchCount(ctx, models.TablePendingRestaurants, ""); err != nil {
		checks["platform"] = err.Error()
		healthy = false
	} else {
		checks["platformLatencyMs"] = time.Since(start).Milliseconds()
	}

	status := fiber.StatusOK
	overall := "ok"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": checks,
	})
}
