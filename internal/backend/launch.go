package backend

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"recoverydesk/internal/models"
)

// LaunchRequest asks the backend to send a broadcast to an allocation.
type LaunchRequest struct {
	BroadcastID uuid.UUID              `json:"broadcastId"`
	Name        string                 `json:"name"`
	TemplateID  string                 `json:"templateId"`
	Channel     string                 `json:"channel"`
	Allocation  map[models.Segment]int `json:"allocation"`
}

// LaunchResponse is the backend's acknowledgement of a launch.
type LaunchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Launcher hands a confirmed broadcast to the backend for delivery.
type Launcher interface {
	Launch(ctx context.Context, req LaunchRequest) (*LaunchResponse, error)
}

// Launch submits a broadcast for delivery.
func (c *Client) Launch(ctx context.Context, req LaunchRequest) (*LaunchResponse, error) {
	var resp LaunchResponse
	if err := c.do(ctx, "launch", http.MethodPost, c.launchPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
