package eventfeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"recoverydesk/internal/metrics"
)

// ErrStreamEnded is returned by Run when the server answers 204 No Content,
// which tells event-stream clients to stop reconnecting.
var ErrStreamEnded = errors.New("event stream ended by server")

const subscriberBuffer = 16

// Options configures a Consumer.
type Options struct {
	URL            string
	APIKey         string
	BufferSize     int
	ReconnectDelay time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// Consumer holds one connection to the backend event stream at a time,
// reconnecting after failures, and records non-heartbeat events.
type Consumer struct {
	url    string
	apiKey string
	delay  time.Duration
	client *http.Client
	logger *slog.Logger
	log    *Log

	connected atomic.Bool

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
	lastID string
	retry  time.Duration
	now    func() time.Time
}

// NewConsumer creates a consumer. Run starts it.
func NewConsumer(opts Options) *Consumer {
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		// No overall timeout: the response body stays open for the life of the stream.
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		url:    opts.URL,
		apiKey: opts.APIKey,
		delay:  delay,
		client: client,
		logger: logger.With("component", "eventfeed"),
		log:    NewLog(opts.BufferSize),
		subs:   make(map[int]chan Event),
		now:    time.Now,
	}
}

// Recent returns the logged events, oldest first.
func (c *Consumer) Recent() []Event {
	return c.log.Recent()
}

// Connected reports whether a stream is currently open.
func (c *Consumer) Connected() bool {
	return c.connected.Load()
}

// Subscribe returns a channel of live events and a function that cancels the
// subscription. Slow subscribers miss events rather than blocking the feed.
// The channel is closed when the subscription is cancelled or Run returns.
func (c *Consumer) Subscribe() (<-chan Event, func()) {
	_, ch, cancel := c.SubscribeWithBacklog()
	return ch, cancel
}

// SubscribeWithBacklog is Subscribe that also returns the logged events as of
// the moment of subscribing. An event is either in the backlog or delivered on
// the channel, never both.
func (c *Consumer) SubscribeWithBacklog() ([]Event, <-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	backlog := c.log.Recent()
	ch := make(chan Event, subscriberBuffer)
	if c.closed {
		close(ch)
		return backlog, ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = ch

	return backlog, ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Run connects and keeps reconnecting until ctx is cancelled or the server
// ends the stream. It returns ctx.Err() on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.closeSubscribers()

	c.logger.Info("event feed started", "url", c.url)
	for {
		err := c.connect(ctx)
		if ctx.Err() != nil {
			c.logger.Info("event feed stopped")
			return ctx.Err()
		}
		if errors.Is(err, ErrStreamEnded) {
			c.logger.Info("event feed ended by server")
			return err
		}

		delay := c.reconnectDelay()
		if err != nil && !errors.Is(err, io.EOF) {
			c.logger.Warn("event feed disconnected", "error", err, "retry_in", delay)
		} else {
			c.logger.Info("event feed closed by server", "retry_in", delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("event feed stopped")
			return ctx.Err()
		case <-timer.C:
		}
		metrics.RecordFeedReconnect()
	}
}

func (c *Consumer) reconnectDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retry > 0 {
		return c.retry
	}
	return c.delay
}

// connect opens one stream and reads it until it fails or ends.
func (c *Consumer) connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.mu.Lock()
	lastID := c.lastID
	c.mu.Unlock()
	if lastID != "" {
		req.Header.Set("Last-Event-ID", lastID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return ErrStreamEnded
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("open stream: unexpected status %s", resp.Status)
	}

	c.connected.Store(true)
	defer c.connected.Store(false)

	parser := NewParser(resp.Body, lastID)
	defer func() {
		c.mu.Lock()
		c.lastID = parser.LastID()
		if r := parser.Retry(); r > 0 {
			c.retry = r
		}
		c.mu.Unlock()
	}()

	for {
		frame, err := parser.Next()
		if err != nil {
			return err
		}
		c.handle(newEvent(frame, c.now()))
	}
}

func (c *Consumer) handle(ev Event) {
	if ev.IsHeartbeat() {
		return
	}
	metrics.RecordFeedEvent(ev.Type)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Append(ev)
	if ev.ID != "" {
		c.lastID = ev.ID
	}
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (c *Consumer) closeSubscribers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}
