package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/models"
)

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness.
type HealthHandler struct {
	db   Pinger
	feed interface{ Connected() bool }
}

// NewHealthHandler creates a new health handler. feed may be nil when the
// live event feed is disabled.
func NewHealthHandler(database Pinger, feed interface{ Connected() bool }) *HealthHandler {
	return &HealthHandler{db: database, feed: feed}
}

// Healthz answers 200 while the database is reachable and 503 otherwise.
// A disconnected event feed degrades nothing but is reported.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Database: "ok"}
	if h.feed != nil {
		resp.FeedConnected = h.feed.Connected()
	}

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Database = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	return c.JSON(resp)
}
