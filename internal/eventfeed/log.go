package eventfeed

import "sync"

// DefaultLogSize is the number of events kept when no size is configured.
const DefaultLogSize = 10

// Log is a bounded, concurrency-safe ring of the most recent events.
type Log struct {
	mu     sync.RWMutex
	events []Event
	start  int
	count  int
}

// NewLog creates a log holding at most size events.
func NewLog(size int) *Log {
	if size <= 0 {
		size = DefaultLogSize
	}
	return &Log{events: make([]Event, size)}
}

// Append adds ev, evicting the oldest event when full.
func (l *Log) Append(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := (l.start + l.count) % len(l.events)
	l.events[idx] = ev
	if l.count < len(l.events) {
		l.count++
	} else {
		l.start = (l.start + 1) % len(l.events)
	}
}

// Recent returns a copy of the logged events, oldest first.
func (l *Log) Recent() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, l.count)
	for i := range l.count {
		out[i] = l.events[(l.start+i)%len(l.events)]
	}
	return out
}

// Len returns the number of logged events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}
