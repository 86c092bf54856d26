package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/pricing"
)

// PricingHandler serves channel prices and cost estimates.
type PricingHandler struct {
	prices *pricing.Table
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(prices *pricing.Table) *PricingHandler {
	return &PricingHandler{prices: prices}
}

// List returns the configured price of every channel.
func (h *PricingHandler) List(c fiber.Ctx) error {
	out := make(map[string]pricing.Price)
	for _, ch := range h.prices.Channels() {
		p, _ := h.prices.Price(ch)
		out[ch] = p
	}
	return jsonSuccess(c, out)
}

// Estimate prices sending count messages on channel.
func (h *PricingHandler) Estimate(c fiber.Ctx) error {
	channel := c.Query("channel")
	if channel == "" {
		return jsonError(c, fiber.StatusBadRequest, "channel is required")
	}

	count, err := queryInt(c, "count", 0)
	if err != nil || count < 0 {
		return jsonError(c, fiber.StatusBadRequest, "count must be a non-negative integer")
	}

	estimate, err := h.prices.Estimate(channel, count)
	if errors.Is(err, pricing.ErrChannelNotPriced) {
		return jsonError(c, fiber.StatusNotFound, "channel has no configured price")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to estimate cost")
	}

	return jsonSuccess(c, estimate)
}
