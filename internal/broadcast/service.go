// Package broadcast turns an operator's confirmed batch into a recorded,
// launched send.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/backend"
	"recoverydesk/internal/metrics"
	"recoverydesk/internal/models"
	"recoverydesk/internal/pricing"
	"recoverydesk/internal/validation"
)

var (
	ErrInvalidInput              = errors.New("invalid broadcast")
	ErrNothingToSend             = errors.New("no eligible customers to send to")
	ErrRecommendationUnavailable = errors.New("recommendation unavailable")
	ErrLaunchFailed              = errors.New("backend launch failed")
)

// Store persists broadcasts.
type Store interface {
	CreateBroadcast(ctx context.Context, b *models.Broadcast) error
	UpdateBroadcastStatus(ctx context.Context, id uuid.UUID, status string, backendRef, errMsg *string) error
}

// FailureNotifier is told about launches the backend rejected.
type FailureNotifier interface {
	NotifyBroadcastFailed(ctx context.Context, b *models.Broadcast)
}

// Input is what an operator submits to launch a broadcast.
type Input struct {
	Name       string
	TemplateID string
	Channel    string
	Target     int
	CreatedBy  *uuid.UUID
}

// Service launches broadcasts.
type Service struct {
	store    Store
	provider backend.Provider
	launcher backend.Launcher
	prices   *pricing.Table
	logger   *slog.Logger
	notifier FailureNotifier
}

// NewService creates a broadcast service. provider should return a fresh
// recommendation, not a cached one.
func NewService(store Store, provider backend.Provider, launcher backend.Launcher, prices *pricing.Table, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		provider: provider,
		launcher: launcher,
		prices:   prices,
		logger:   logger,
	}
}

// SetNotifier registers n to hear about failed launches.
func (s *Service) SetNotifier(n FailureNotifier) {
	s.notifier = n
}

func (s *Service) validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	if ok, msg := validation.ValidateBroadcastName(in.Name); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	if !validation.ValidateTemplateID(in.TemplateID) {
		return fmt.Errorf("%w: invalid template id", ErrInvalidInput)
	}
	in.Channel = validation.NormalizeChannel(in.Channel)
	if !validation.ValidateChannel(in.Channel) {
		return fmt.Errorf("%w: invalid channel", ErrInvalidInput)
	}
	if ok, msg := validation.ValidateTarget(in.Target); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	return nil
}

// Launch allocates in.Target customers against the current recommendation,
// records the broadcast as queued and hands it to the backend. When the
// backend rejects the launch the broadcast is recorded as failed and returned
// together with an error wrapping ErrLaunchFailed.
func (s *Service) Launch(ctx context.Context, in Input) (*models.Broadcast, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	// Reject unpriced channels before touching the backend.
	if _, err := s.prices.Price(in.Channel); err != nil {
		return nil, err
	}

	rec, err := s.provider.Recommendation(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecommendationUnavailable, err)
	}

	result := allocator.Allocate(in.Target, rec.SegmentBreakdown)
	metrics.RecordAllocation("broadcast")
	if result.TotalAllocated == 0 {
		return nil, ErrNothingToSend
	}

	estimate, err := s.prices.Estimate(in.Channel, result.TotalAllocated)
	if err != nil {
		return nil, err
	}

	b := &models.Broadcast{
		ID:                  uuid.New(),
		Name:                in.Name,
		TemplateID:          in.TemplateID,
		Channel:             in.Channel,
		Target:              in.Target,
		TotalAllocated:      result.TotalAllocated,
		TotalRevenue:        result.TotalRevenue,
		EstimatedCost:       estimate.Total,
		Currency:            estimate.Currency,
		SegmentTableVersion: models.SegmentTableVersion,
		Allocation:          result.Allocation,
		Status:              models.BroadcastQueued,
		CreatedBy:           in.CreatedBy,
	}

	if err := s.store.CreateBroadcast(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to record broadcast: %w", err)
	}

	resp, launchErr := s.launcher.Launch(ctx, backend.LaunchRequest{
		BroadcastID: b.ID,
		Name:        b.Name,
		TemplateID:  b.TemplateID,
		Channel:     b.Channel,
		Allocation:  b.Allocation,
	})
	if launchErr != nil {
		msg := launchErr.Error()
		b.Status = models.BroadcastFailed
		b.Error = &msg
		if err := s.store.UpdateBroadcastStatus(ctx, b.ID, b.Status, nil, b.Error); err != nil {
			s.logger.Error("failed to mark broadcast failed", "broadcast_id", b.ID, "error", err)
		}
		s.logger.Warn("broadcast launch failed", "broadcast_id", b.ID, "channel", b.Channel, "error", launchErr)
		if s.notifier != nil {
			s.notifier.NotifyBroadcastFailed(ctx, b)
		}
		return b, fmt.Errorf("%w: %v", ErrLaunchFailed, launchErr)
	}

	ref := resp.ID
	b.Status = models.BroadcastLaunched
	if ref != "" {
		b.BackendRef = &ref
	}
	if err := s.store.UpdateBroadcastStatus(ctx, b.ID, b.Status, b.BackendRef, nil); err != nil {
		s.logger.Error("failed to mark broadcast launched", "broadcast_id", b.ID, "error", err)
	}

	s.logger.Info("broadcast launched",
		"broadcast_id", b.ID,
		"channel", b.Channel,
		"allocated", b.TotalAllocated,
		"revenue", b.TotalRevenue,
		"cost", b.EstimatedCost.String(),
	)

	return b, nil
}
