package models

import "time"

// RecommendationSnapshot records what the backend recommended at a point in
// time and what the allocator made of it.
type RecommendationSnapshot struct {
	ID                   int64           `json:"id"`
	TotalEligible        int             `json:"total_eligible"`
	RecommendedBatchSize int             `json:"recommended_batch_size"`
	SegmentBreakdown     map[Segment]int `json:"segment_breakdown"`
	PotentialRevenue     float64         `json:"potential_revenue"`
	AllocatedRevenue     int64           `json:"allocated_revenue"`
	AllocatedCount       int             `json:"allocated_count"`
	TakenAt              time.Time       `json:"taken_at"`
}
