package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recoverydesk/internal/broadcast"
	"recoverydesk/internal/db"
	"recoverydesk/internal/models"
	"recoverydesk/internal/pricing"
)

type fakeLauncher struct {
	got []broadcast.Input
	b   *models.Broadcast
	err error
}

func (l *fakeLauncher) Launch(_ context.Context, in broadcast.Input) (*models.Broadcast, error) {
	l.got = append(l.got, in)
	return l.b, l.err
}

type fakeBroadcastStore struct {
	items []models.Broadcast
	err   error
	limit int
}

func (s *fakeBroadcastStore) GetBroadcast(_ context.Context, id uuid.UUID) (*models.Broadcast, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, db.ErrBroadcastNotFound
}

func (s *fakeBroadcastStore) ListBroadcasts(_ context.Context, limit int) ([]models.Broadcast, error) {
	s.limit = limit
	return s.items, s.err
}

func broadcastApp(l *fakeLauncher, s *fakeBroadcastStore, u *models.User) *fiber.App {
	h := NewBroadcastHandler(l, s)
	app := fiber.New()
	app.Post("/api/broadcasts", withUser(u), h.Create)
	app.Get("/api/broadcasts", h.List)
	app.Get("/api/broadcasts/:id", h.Get)
	return app
}

const launchBody = `{"name":"winback","template_id":"winback_v1","channel":"whatsapp","target":5}`

func TestBroadcastCreate(t *testing.T) {
	operator := &models.User{ID: uuid.New(), Role: models.RoleOperator}
	launched := &models.Broadcast{ID: uuid.New(), Name: "winback", Status: models.BroadcastLaunched}
	l := &fakeLauncher{b: launched}

	status, env := doJSON(t, broadcastApp(l, &fakeBroadcastStore{}, operator), "POST", "/api/broadcasts", launchBody)
	require.Equal(t, http.StatusCreated, status)

	var got models.Broadcast
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, launched.ID, got.ID)

	require.Len(t, l.got, 1)
	assert.Equal(t, 5, l.got[0].Target)
	assert.Equal(t, "winback_v1", l.got[0].TemplateID)
	require.NotNil(t, l.got[0].CreatedBy)
	assert.Equal(t, operator.ID, *l.got[0].CreatedBy)
}

func TestBroadcastCreate_Roles(t *testing.T) {
	tests := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"viewer", &models.User{Role: models.RoleViewer}, http.StatusForbidden},
		{"dev operator without id", &models.User{Role: models.RoleOperator}, http.StatusCreated},
		{"admin", &models.User{ID: uuid.New(), Role: models.RoleAdmin}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLauncher{b: &models.Broadcast{ID: uuid.New()}}
			status, _ := doJSON(t, broadcastApp(l, &fakeBroadcastStore{}, tt.user), "POST", "/api/broadcasts", launchBody)
			assert.Equal(t, tt.status, status)
			if status == http.StatusCreated && tt.user.ID == uuid.Nil {
				assert.Nil(t, l.got[0].CreatedBy)
			}
		})
	}
}

func TestBroadcastCreate_ErrorMapping(t *testing.T) {
	failed := &models.Broadcast{ID: uuid.New(), Status: models.BroadcastFailed}

	tests := []struct {
		name   string
		b      *models.Broadcast
		err    error
		status int
	}{
		{"invalid input", nil, fmt.Errorf("%w: name is required", broadcast.ErrInvalidInput), http.StatusBadRequest},
		{"unpriced channel", nil, pricing.ErrChannelNotPriced, http.StatusBadRequest},
		{"nothing to send", nil, broadcast.ErrNothingToSend, http.StatusConflict},
		{"recommendation down", nil, fmt.Errorf("%w: timeout", broadcast.ErrRecommendationUnavailable), http.StatusBadGateway},
		{"launch failed", failed, fmt.Errorf("%w: 500", broadcast.ErrLaunchFailed), http.StatusBadGateway},
		{"unexpected", nil, errors.New("db down"), http.StatusInternalServerError},
	}

	operator := &models.User{ID: uuid.New(), Role: models.RoleOperator}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLauncher{b: tt.b, err: tt.err}
			status, env := doJSON(t, broadcastApp(l, &fakeBroadcastStore{}, operator), "POST", "/api/broadcasts", launchBody)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestBroadcastCreate_LaunchFailedNamesBroadcast(t *testing.T) {
	failed := &models.Broadcast{ID: uuid.New(), Status: models.BroadcastFailed}
	l := &fakeLauncher{b: failed, err: broadcast.ErrLaunchFailed}
	operator := &models.User{ID: uuid.New(), Role: models.RoleOperator}

	_, env := doJSON(t, broadcastApp(l, &fakeBroadcastStore{}, operator), "POST", "/api/broadcasts", launchBody)
	assert.Contains(t, env.Error, failed.ID.String())
}

func TestBroadcastCreate_BadBody(t *testing.T) {
	operator := &models.User{ID: uuid.New(), Role: models.RoleOperator}
	l := &fakeLauncher{}

	status, _ := doJSON(t, broadcastApp(l, &fakeBroadcastStore{}, operator), "POST", "/api/broadcasts", `{"target": "five"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, l.got)
}

func TestBroadcastListAndGet(t *testing.T) {
	first := models.Broadcast{ID: uuid.New(), Name: "first"}
	store := &fakeBroadcastStore{items: []models.Broadcast{first}}
	app := broadcastApp(&fakeLauncher{}, store, nil)

	status, env := doJSON(t, app, "GET", "/api/broadcasts?limit=1000", "")
	require.Equal(t, http.StatusOK, status)
	var list []models.Broadcast
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
	assert.Equal(t, 200, store.limit, "limit is capped")

	status, _ = doJSON(t, app, "GET", "/api/broadcasts?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = doJSON(t, app, "GET", "/api/broadcasts/"+first.ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	var got models.Broadcast
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "first", got.Name)

	status, _ = doJSON(t, app, "GET", "/api/broadcasts/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, "GET", "/api/broadcasts/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBroadcastList_StoreError(t *testing.T) {
	app := broadcastApp(&fakeLauncher{}, &fakeBroadcastStore{err: errors.New("db down")}, nil)
	status, _ := doJSON(t, app, "GET", "/api/broadcasts", "")
	assert.Equal(t, http.StatusInternalServerError, status)
}
