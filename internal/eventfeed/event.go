// Package eventfeed consumes the backend's server-sent event stream and keeps
// a small in-memory log of the most recent events.
package eventfeed

import (
	"encoding/json"
	"time"
)

// HeartbeatType is the reserved keep-alive event type. Heartbeats are never
// logged or forwarded.
const HeartbeatType = "heartbeat"

// DefaultEventType is used when neither the SSE event field nor the payload
// names a type.
const DefaultEventType = "message"

// Event is one delivery-status or activity update from the backend.
type Event struct {
	ID         string          `json:"id,omitempty"`
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	ReceivedAt time.Time       `json:"received_at"`
}

// newEvent converts a dispatched SSE frame into an Event. The type comes from
// the SSE event field, then from a "type" key in a JSON payload. Payloads that
// are not JSON are kept as a JSON string.
func newEvent(f Frame, now time.Time) Event {
	ev := Event{ID: f.ID, Type: f.Event, ReceivedAt: now}

	data := []byte(f.Data)
	if json.Valid(data) {
		ev.Data = json.RawMessage(data)
		if ev.Type == "" || ev.Type == DefaultEventType {
			var payload struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &payload); err == nil && payload.Type != "" {
				ev.Type = payload.Type
			}
		}
	} else {
		quoted, _ := json.Marshal(f.Data)
		ev.Data = json.RawMessage(quoted)
	}

	if ev.Type == "" {
		ev.Type = DefaultEventType
	}
	return ev
}

// IsHeartbeat reports whether the event is a keep-alive.
func (e Event) IsHeartbeat() bool {
	return e.Type == HeartbeatType
}
