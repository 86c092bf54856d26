package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/eventfeed"
	"recoverydesk/internal/models"
)

// EventSource is the live event feed.
type EventSource interface {
	Recent() []eventfeed.Event
	Connected() bool
	SubscribeWithBacklog() ([]eventfeed.Event, <-chan eventfeed.Event, func())
}

// EventHandler exposes the live event feed to browsers.
type EventHandler struct {
	feed      EventSource
	keepAlive time.Duration
}

// NewEventHandler creates a new event handler.
func NewEventHandler(feed EventSource) *EventHandler {
	return &EventHandler{feed: feed, keepAlive: 15 * time.Second}
}

// Recent returns the feed connection state and the latest events.
func (h *EventHandler) Recent(c fiber.Ctx) error {
	return jsonSuccess(c, models.FeedStatusResponse{
		Connected: h.feed.Connected(),
		Events:    h.feed.Recent(),
	})
}

// Stream relays the live feed as server-sent events. Recent events are
// replayed first, skipping any the client already saw per Last-Event-ID.
func (h *EventHandler) Stream(c fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	recent, events, unsubscribe := h.feed.SubscribeWithBacklog()
	backlog := replayAfter(recent, c.Get("Last-Event-ID"))
	keepAlive := h.keepAlive

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		for _, ev := range backlog {
			if err := writeEvent(w, ev); err != nil {
				return
			}
		}
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
			}
			// A failed flush means the client went away
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
}

// replayAfter returns the events after lastID, or all of them when lastID is
// empty or no longer in the backlog.
func replayAfter(events []eventfeed.Event, lastID string) []eventfeed.Event {
	if lastID == "" {
		return events
	}
	for i, ev := range events {
		if ev.ID == lastID {
			return events[i+1:]
		}
	}
	return events
}

func writeEvent(w *bufio.Writer, ev eventfeed.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.ID); err != nil {
			return err
		}
	}
	eventType := strings.NewReplacer("\r", "", "\n", "").Replace(ev.Type)
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
	return err
}

// FeedDisabled answers event requests when the live feed is turned off.
func FeedDisabled(c fiber.Ctx) error {
	return jsonError(c, fiber.StatusServiceUnavailable, "live event feed is disabled")
}
