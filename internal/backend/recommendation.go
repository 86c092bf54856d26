package backend

import (
	"context"
	"net/http"

	"recoverydesk/internal/allocator"
)

// Recommendation is the backend's view of who can be contacted right now.
// Field names follow the backend's JSON.
type Recommendation struct {
	TotalEligible        int                    `json:"totalEligible"`
	RecommendedBatchSize int                    `json:"recommendedBatchSize"`
	SegmentBreakdown     allocator.Availability `json:"segmentBreakdown"`
	PotentialRevenue     float64                `json:"potentialRevenue"`
}

// Provider returns the current recommendation.
type Provider interface {
	Recommendation(ctx context.Context) (*Recommendation, error)
}

// Recommendation fetches the current eligible-customer breakdown.
func (c *Client) Recommendation(ctx context.Context) (*Recommendation, error) {
	var rec Recommendation
	if err := c.do(ctx, "recommendation", http.MethodGet, c.recommendationPath, nil, &rec); err != nil {
		return nil, err
	}
	if rec.SegmentBreakdown == nil {
		rec.SegmentBreakdown = allocator.Availability{}
	}
	return &rec, nil
}
