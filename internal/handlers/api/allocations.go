package api

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/backend"
	"recoverydesk/internal/metrics"
	"recoverydesk/internal/models"
)

// maxCurvePoints bounds the size of a curve response.
const maxCurvePoints = 500

// AllocationHandler evaluates allocations against supplied or live availability.
type AllocationHandler struct {
	provider backend.Provider
}

// NewAllocationHandler creates a new allocation handler.
func NewAllocationHandler(provider backend.Provider) *AllocationHandler {
	return &AllocationHandler{provider: provider}
}

// Allocate runs the allocator for a target. When the body carries no
// availability, the live recommendation breakdown is used.
func (h *AllocationHandler) Allocate(c fiber.Ctx) error {
	var body struct {
		Target       int                    `json:"target"`
		Availability allocator.Availability `json:"availability"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	availability := body.Availability
	source := "request"
	if availability == nil {
		rec, err := h.provider.Recommendation(c.Context())
		if err != nil {
			slog.Warn("allocation: recommendation unavailable", "error", err)
			return jsonError(c, fiber.StatusBadGateway, "recommendation unavailable")
		}
		availability = rec.SegmentBreakdown
		source = "live"
	}

	result := allocator.Allocate(body.Target, availability)
	metrics.RecordAllocation(source)

	return jsonSuccess(c, models.AllocationResponse{
		Target:         max(body.Target, 0),
		Allocation:     result.Allocation,
		TotalRevenue:   result.TotalRevenue,
		TotalAllocated: result.TotalAllocated,
	})
}

// Curve returns the allocation at every step from zero to the live total.
func (h *AllocationHandler) Curve(c fiber.Ctx) error {
	step, err := queryInt(c, "step", 1)
	if err != nil || step < 1 {
		return jsonError(c, fiber.StatusBadRequest, "step must be a positive integer")
	}

	rec, err := h.provider.Recommendation(c.Context())
	if err != nil {
		slog.Warn("allocation curve: recommendation unavailable", "error", err)
		return jsonError(c, fiber.StatusBadGateway, "recommendation unavailable")
	}

	// Widen the step rather than return an unbounded curve
	if total := allocator.TotalAvailable(rec.SegmentBreakdown); total/step > maxCurvePoints {
		step = (total + maxCurvePoints - 1) / maxCurvePoints
	}

	metrics.RecordAllocation("curve")
	return jsonSuccess(c, fiber.Map{
		"step":   step,
		"points": allocator.Curve(rec.SegmentBreakdown, step),
	})
}
