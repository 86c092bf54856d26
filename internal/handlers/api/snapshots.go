package api

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/models"
)

// SnapshotStore reads recommendation snapshots.
type SnapshotStore interface {
	ListSnapshots(ctx context.Context, limit int) ([]models.RecommendationSnapshot, error)
}

// SnapshotHandler serves recommendation history.
type SnapshotHandler struct {
	store SnapshotStore
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(store SnapshotStore) *SnapshotHandler {
	return &SnapshotHandler{store: store}
}

// List returns recent snapshots, newest first.
func (h *SnapshotHandler) List(c fiber.Ctx) error {
	limit, ok := queryLimit(c, 96, 1000)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
	}

	snapshots, err := h.store.ListSnapshots(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch snapshots")
	}

	return jsonSuccess(c, snapshots)
}
