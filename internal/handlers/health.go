package handlers

import (
	"github.com/gofiber/fiber/v3"

	"featreq/internal/db"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db *db.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{db: database}
}

// Check pings the database and reports status.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	if err := h.db.Pool.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "database unreachable")
	}
	return jsonSuccess(c, fiber.Map{"healthy": true})
}
