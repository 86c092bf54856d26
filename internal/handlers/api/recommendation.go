package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/backend"
	"recoverydesk/internal/metrics"
	"recoverydesk/internal/models"
)

// RecommendationHandler serves the live recommendation.
type RecommendationHandler struct {
	provider backend.Provider
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(provider backend.Provider) *RecommendationHandler {
	return &RecommendationHandler{provider: provider}
}

// Get returns the live recommendation with the allocation at its recommended
// batch size.
func (h *RecommendationHandler) Get(c fiber.Ctx) error {
	rec, err := h.provider.Recommendation(c.Context())
	if err != nil {
		slog.Warn("recommendation unavailable", "error", err)
		return jsonError(c, fiber.StatusBadGateway, "recommendation unavailable")
	}

	result := allocator.Allocate(rec.RecommendedBatchSize, rec.SegmentBreakdown)
	metrics.RecordAllocation("recommendation")

	return jsonSuccess(c, models.RecommendationResponse{
		TotalEligible:        rec.TotalEligible,
		RecommendedBatchSize: rec.RecommendedBatchSize,
		SegmentBreakdown:     rec.SegmentBreakdown,
		PotentialRevenue:     rec.PotentialRevenue,
		Allocation: models.AllocationResponse{
			Target:         max(rec.RecommendedBatchSize, 0),
			Allocation:     result.Allocation,
			TotalRevenue:   result.TotalRevenue,
			TotalAllocated: result.TotalAllocated,
		},
	})
}
