package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"recoverydesk/internal/broadcast"
	"recoverydesk/internal/db"
	"recoverydesk/internal/models"
	"recoverydesk/internal/pricing"
)

// BroadcastLauncher launches broadcasts.
type BroadcastLauncher interface {
	Launch(ctx context.Context, in broadcast.Input) (*models.Broadcast, error)
}

// BroadcastStore reads launch history.
type BroadcastStore interface {
	GetBroadcast(ctx context.Context, id uuid.UUID) (*models.Broadcast, error)
	ListBroadcasts(ctx context.Context, limit int) ([]models.Broadcast, error)
}

// BroadcastHandler handles broadcast launches and history via JSON API.
type BroadcastHandler struct {
	launcher BroadcastLauncher
	store    BroadcastStore
}

// NewBroadcastHandler creates a new broadcast handler.
func NewBroadcastHandler(launcher BroadcastLauncher, store BroadcastStore) *BroadcastHandler {
	return &BroadcastHandler{launcher: launcher, store: store}
}

// Create launches a broadcast for the requested batch size.
func (h *BroadcastHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.CanLaunch() {
		return jsonError(c, fiber.StatusForbidden, "operator access required")
	}

	var body struct {
		Name       string `json:"name"`
		TemplateID string `json:"template_id"`
		Channel    string `json:"channel"`
		Target     int    `json:"target"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	in := broadcast.Input{
		Name:       body.Name,
		TemplateID: body.TemplateID,
		Channel:    body.Channel,
		Target:     body.Target,
	}
	if user.ID != uuid.Nil {
		id := user.ID
		in.CreatedBy = &id
	}

	b, err := h.launcher.Launch(c.Context(), in)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": "ok",
			"data":   b,
		})
	case errors.Is(err, broadcast.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrChannelNotPriced):
		return jsonError(c, fiber.StatusBadRequest, "channel has no configured price")
	case errors.Is(err, broadcast.ErrNothingToSend):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, broadcast.ErrRecommendationUnavailable):
		return jsonError(c, fiber.StatusBadGateway, "recommendation unavailable")
	case errors.Is(err, broadcast.ErrLaunchFailed):
		msg := "backend launch failed"
		if b != nil {
			msg += " for broadcast " + b.ID.String()
		}
		return jsonError(c, fiber.StatusBadGateway, msg)
	default:
		slog.Error("broadcast launch error", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to launch broadcast")
	}
}

// List returns recent broadcasts, newest first.
func (h *BroadcastHandler) List(c fiber.Ctx) error {
	limit, ok := queryLimit(c, 50, 200)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
	}

	broadcasts, err := h.store.ListBroadcasts(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch broadcasts")
	}

	return jsonSuccess(c, broadcasts)
}

// Get returns a single broadcast by ID.
func (h *BroadcastHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid broadcast id")
	}

	b, err := h.store.GetBroadcast(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrBroadcastNotFound) {
			return jsonError(c, fiber.StatusNotFound, "broadcast not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch broadcast")
	}

	return jsonSuccess(c, b)
}
