package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	broadcastsDesc = prometheus.NewDesc(
		"recoverydesk_broadcasts",
		"Number of recorded broadcasts by status",
		[]string{"status"},
		nil,
	)

	allocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recoverydesk_allocations_total",
		Help: "Allocations computed, by caller",
	}, []string{"source"})

	backendErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recoverydesk_backend_errors_total",
		Help: "Failed backend calls by operation and failure kind",
	}, []string{"operation", "kind"})

	feedEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recoverydesk_feed_events_total",
		Help: "Live feed events received, by event type",
	}, []string{"type"})

	feedReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recoverydesk_feed_reconnects_total",
		Help: "Live feed reconnect attempts",
	})

	feedEventTypes = newLabelLimiter(maxFeedEventTypes)
)

// Event types come from the backend, so only the first maxFeedEventTypes
// distinct values get their own series. Later ones are counted as "other".
const (
	maxFeedEventTypes = 32
	otherLabel        = "other"
)

type labelLimiter struct {
	mu    sync.Mutex
	limit int
	seen  map[string]struct{}
}

func newLabelLimiter(limit int) *labelLimiter {
	return &labelLimiter{limit: limit, seen: make(map[string]struct{})}
}

func (l *labelLimiter) label(v string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[v]; ok {
		return v
	}
	if len(l.seen) >= l.limit {
		return otherLabel
	}
	l.seen[v] = struct{}{}
	return v
}

// BroadcastCounter reports how many broadcasts exist per status.
type BroadcastCounter interface {
	CountBroadcastsByStatus(ctx context.Context) (map[string]int64, error)
}

// BroadcastCollector is a custom Prometheus collector that reads broadcast
// counts from the database on each scrape.
type BroadcastCollector struct {
	counter BroadcastCounter
}

// Describe sends the metric descriptor to the channel.
func (c *BroadcastCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- broadcastsDesc
}

// Collect queries the database for broadcast counts and emits them as gauges.
func (c *BroadcastCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.counter.CountBroadcastsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect broadcast metrics", "error", err)
		return
	}
	for status, n := range counts {
		ch <- prometheus.MustNewConstMetric(broadcastsDesc, prometheus.GaugeValue, float64(n), status)
	}
}

var initOnce sync.Once

// Init registers all collectors with the default registry.
// Must be called once at startup; later calls are no-ops.
func Init(counter BroadcastCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(allocationsTotal, backendErrorsTotal, feedEventsTotal, feedReconnectsTotal)
		if counter != nil {
			prometheus.MustRegister(&BroadcastCollector{counter: counter})
		}
	})
}

// RecordAllocation counts one allocator evaluation.
func RecordAllocation(source string) {
	allocationsTotal.WithLabelValues(source).Inc()
}

// RecordBackendError counts one failed backend call.
func RecordBackendError(operation, kind string) {
	backendErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// RecordFeedEvent counts one received live feed event.
func RecordFeedEvent(eventType string) {
	feedEventsTotal.WithLabelValues(feedEventTypes.label(eventType)).Inc()
}

// RecordFeedReconnect counts one reconnect attempt of the live feed.
func RecordFeedReconnect() {
	feedReconnectsTotal.Inc()
}
