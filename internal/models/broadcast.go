package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Broadcast status constants
const (
	BroadcastQueued   = "queued"   // recorded, not yet accepted by the backend
	BroadcastLaunched = "launched" // accepted by the backend for delivery
	BroadcastFailed   = "failed"   // the backend rejected or could not be reached
)

// Broadcast is a confirmed outreach send: the allocation an operator approved
// and what the backend was asked to deliver.
type Broadcast struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	TemplateID          string          `json:"template_id"`
	Channel             string          `json:"channel"`
	Target              int             `json:"target"`
	TotalAllocated      int             `json:"total_allocated"`
	TotalRevenue        int64           `json:"total_revenue"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	Currency            string          `json:"currency"`
	SegmentTableVersion string          `json:"segment_table_version"`
	Allocation          map[Segment]int `json:"allocation"`
	Status              string          `json:"status"`
	BackendRef          *string         `json:"backend_ref,omitempty"`
	Error               *string         `json:"error,omitempty"`
	CreatedBy           *uuid.UUID      `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// SegmentRevenue returns the estimated revenue of the broadcast's draw from s.
func (b *Broadcast) SegmentRevenue(s Segment) int64 {
	return int64(b.Allocation[s]) * s.Value()
}
