package models

// SegmentTableResponse is the shared segment value table.
type SegmentTableResponse struct {
	Version  string        `json:"version"`
	Segments []SegmentInfo `json:"segments"`
}

// AllocationResponse is the result of one allocator evaluation.
type AllocationResponse struct {
	Target         int             `json:"target"`
	Allocation     map[Segment]int `json:"allocation"`
	TotalRevenue   int64           `json:"total_revenue"`
	TotalAllocated int             `json:"total_allocated"`
}

// RecommendationResponse combines the backend recommendation with the
// allocation at the recommended batch size.
type RecommendationResponse struct {
	TotalEligible        int                `json:"total_eligible"`
	RecommendedBatchSize int                `json:"recommended_batch_size"`
	SegmentBreakdown     map[Segment]int    `json:"segment_breakdown"`
	PotentialRevenue     float64            `json:"potential_revenue"`
	Allocation           AllocationResponse `json:"allocation"`
}

// FeedStatusResponse describes the live event feed.
type FeedStatusResponse struct {
	Connected bool `json:"connected"`
	Events    any  `json:"events"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	FeedConnected bool   `json:"feed_connected"`
}
