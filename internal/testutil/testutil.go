// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"sync"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/backend"
)

// Provider is a backend.Provider returning a fixed recommendation or error.
type Provider struct {
	Rec *backend.Recommendation
	Err error

	mu    sync.Mutex
	calls int
}

// Recommendation returns p.Rec, or p.Err when set.
func (p *Provider) Recommendation(context.Context) (*backend.Recommendation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Rec, nil
}

// Calls returns how many times Recommendation was called.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// NewRecommendation builds a recommendation over breakdown with the given
// recommended batch size.
func NewRecommendation(breakdown allocator.Availability, batch int) *backend.Recommendation {
	if breakdown == nil {
		breakdown = allocator.Availability{}
	}
	return &backend.Recommendation{
		TotalEligible:        allocator.TotalAvailable(breakdown),
		RecommendedBatchSize: batch,
		SegmentBreakdown:     breakdown,
	}
}
