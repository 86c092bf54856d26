package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"recoverydesk/internal/models"
)

func newTestBroadcast(name string) *models.Broadcast {
	return &models.Broadcast{
		Name:                name,
		TemplateID:          "winback_v1",
		Channel:             "whatsapp",
		Target:              3,
		TotalAllocated:      3,
		TotalRevenue:        2500 + 1800 + 300,
		EstimatedCost:       decimal.RequireFromString("0.2550"),
		Currency:            "USD",
		SegmentTableVersion: models.SegmentTableVersion,
		Allocation: map[models.Segment]int{
			models.SegmentLost:      1,
			models.SegmentPaidRisk:  1,
			models.SegmentFirstFree: 1,
			models.SegmentPaidDue:   0,
		},
		Status: models.BroadcastQueued,
	}
}

func TestCreateAndGetBroadcast(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	b := newTestBroadcast("october winback")
	if err := db.CreateBroadcast(ctx, b); err != nil {
		t.Fatalf("CreateBroadcast() error = %v", err)
	}
	if b.ID == uuid.Nil {
		t.Fatal("CreateBroadcast() did not set ID")
	}
	if b.CreatedAt.IsZero() {
		t.Error("CreateBroadcast() did not set CreatedAt")
	}

	got, err := db.GetBroadcast(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBroadcast() error = %v", err)
	}
	if got.Name != "october winback" {
		t.Errorf("GetBroadcast() name = %q, want %q", got.Name, "october winback")
	}
	if !got.EstimatedCost.Equal(decimal.RequireFromString("0.255")) {
		t.Errorf("GetBroadcast() estimated cost = %s, want 0.255", got.EstimatedCost)
	}
	if got.Status != models.BroadcastQueued {
		t.Errorf("GetBroadcast() status = %q, want %q", got.Status, models.BroadcastQueued)
	}
	if len(got.Allocation) != 3 {
		t.Errorf("GetBroadcast() allocation has %d segments, want 3 (zero counts dropped)", len(got.Allocation))
	}
	if got.Allocation[models.SegmentLost] != 1 {
		t.Errorf("GetBroadcast() LOST = %d, want 1", got.Allocation[models.SegmentLost])
	}

	_, err = db.GetBroadcast(ctx, uuid.New())
	if err != ErrBroadcastNotFound {
		t.Errorf("GetBroadcast() unknown id error = %v, want ErrBroadcastNotFound", err)
	}
}

func TestUpdateBroadcastStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	b := newTestBroadcast("status")
	if err := db.CreateBroadcast(ctx, b); err != nil {
		t.Fatalf("CreateBroadcast() error = %v", err)
	}

	ref := "bk-42"
	if err := db.UpdateBroadcastStatus(ctx, b.ID, models.BroadcastLaunched, &ref, nil); err != nil {
		t.Fatalf("UpdateBroadcastStatus() error = %v", err)
	}

	got, err := db.GetBroadcast(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBroadcast() error = %v", err)
	}
	if got.Status != models.BroadcastLaunched {
		t.Errorf("status = %q, want %q", got.Status, models.BroadcastLaunched)
	}
	if got.BackendRef == nil || *got.BackendRef != ref {
		t.Errorf("backend ref = %v, want %q", got.BackendRef, ref)
	}

	if err := db.UpdateBroadcastStatus(ctx, uuid.New(), models.BroadcastFailed, nil, nil); err != ErrBroadcastNotFound {
		t.Errorf("UpdateBroadcastStatus() unknown id error = %v, want ErrBroadcastNotFound", err)
	}
}

func TestListAndCountBroadcasts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if err := db.CreateBroadcast(ctx, newTestBroadcast(name)); err != nil {
			t.Fatalf("CreateBroadcast(%s) error = %v", name, err)
		}
	}

	list, err := db.ListBroadcasts(ctx, 2)
	if err != nil {
		t.Fatalf("ListBroadcasts() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListBroadcasts() returned %d, want 2", len(list))
	}
	for _, b := range list {
		if b.Allocation[models.SegmentPaidRisk] != 1 {
			t.Errorf("ListBroadcasts() %s PAID_RISK = %d, want 1", b.Name, b.Allocation[models.SegmentPaidRisk])
		}
	}

	if err := db.UpdateBroadcastStatus(ctx, list[0].ID, models.BroadcastFailed, nil, nil); err != nil {
		t.Fatalf("UpdateBroadcastStatus() error = %v", err)
	}

	counts, err := db.CountBroadcastsByStatus(ctx)
	if err != nil {
		t.Fatalf("CountBroadcastsByStatus() error = %v", err)
	}
	if counts[models.BroadcastQueued] != 2 || counts[models.BroadcastFailed] != 1 {
		t.Errorf("CountBroadcastsByStatus() = %v, want queued=2 failed=1", counts)
	}
}
