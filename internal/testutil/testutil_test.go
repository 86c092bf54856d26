package testutil

import (
	"context"
	"errors"
	"testing"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/models"
)

func TestProvider(t *testing.T) {
	rec := NewRecommendation(allocator.Availability{models.SegmentLost: 2, models.SegmentFirstFree: 3}, 4)
	if rec.TotalEligible != 5 {
		t.Errorf("TotalEligible = %d, want 5", rec.TotalEligible)
	}

	p := &Provider{Rec: rec}
	got, err := p.Recommendation(context.Background())
	if err != nil || got != rec {
		t.Errorf("Recommendation() = %v, %v; want fixed recommendation", got, err)
	}

	p.Err = errors.New("down")
	if _, err := p.Recommendation(context.Background()); err == nil {
		t.Error("Recommendation() error = nil, want error")
	}
	if p.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", p.Calls())
	}
}

func TestNewRecommendation_NilBreakdown(t *testing.T) {
	rec := NewRecommendation(nil, 0)
	if rec.SegmentBreakdown == nil {
		t.Error("SegmentBreakdown is nil, want empty map")
	}
}
