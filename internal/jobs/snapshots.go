package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/backend"
	"recoverydesk/internal/metrics"
	"recoverydesk/internal/models"
)

// SnapshotStore persists recommendation snapshots.
type SnapshotStore interface {
	CreateSnapshot(ctx context.Context, s *models.RecommendationSnapshot) error
}

// SnapshotRecorder periodically records what the backend recommends and how
// much revenue the allocator reaches at the recommended batch size.
type SnapshotRecorder struct {
	store    SnapshotStore
	provider backend.Provider
	cron     *cron.Cron
	timeout  time.Duration
}

// NewSnapshotRecorder creates a snapshot recorder scheduled by spec, a
// standard five-field cron expression.
func NewSnapshotRecorder(store SnapshotStore, provider backend.Provider, spec string) (*SnapshotRecorder, error) {
	r := &SnapshotRecorder{
		store:    store,
		provider: provider,
		cron:     cron.New(),
		timeout:  30 * time.Second,
	}
	if _, err := r.cron.AddFunc(spec, r.tick); err != nil {
		return nil, fmt.Errorf("register snapshot job %q: %w", spec, err)
	}
	return r, nil
}

// Start begins running the schedule in the background.
func (r *SnapshotRecorder) Start() {
	r.cron.Start()
	log.Println("Snapshot recorder started")
}

// Stop halts the schedule and waits for a running snapshot to finish.
func (r *SnapshotRecorder) Stop() {
	<-r.cron.Stop().Done()
	log.Println("Snapshot recorder stopped")
}

func (r *SnapshotRecorder) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if _, err := r.RunOnce(ctx); err != nil {
		log.Printf("Snapshot recorder: %v", err)
	}
}

// RunOnce fetches the current recommendation and stores a snapshot of it.
func (r *SnapshotRecorder) RunOnce(ctx context.Context) (*models.RecommendationSnapshot, error) {
	rec, err := r.provider.Recommendation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendation: %w", err)
	}

	result := allocator.Allocate(rec.RecommendedBatchSize, rec.SegmentBreakdown)
	metrics.RecordAllocation("snapshot")

	snap := &models.RecommendationSnapshot{
		TotalEligible:        rec.TotalEligible,
		RecommendedBatchSize: rec.RecommendedBatchSize,
		SegmentBreakdown:     rec.SegmentBreakdown,
		PotentialRevenue:     rec.PotentialRevenue,
		AllocatedRevenue:     result.TotalRevenue,
		AllocatedCount:       result.TotalAllocated,
	}
	if err := r.store.CreateSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	return snap, nil
}
