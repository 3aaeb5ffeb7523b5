package event

import (
	"sync"
	"time"
)

// Log keeps the most recent events in memory and numbers them in the order
// they were emitted.
type Log struct {
	mu      sync.Mutex
	events  []Event
	maxSize int
	seq     uint64
}

// NewLog creates a log that retains at most maxSize events; 0 keeps all.
func NewLog(maxSize int) *Log {
	return &Log{maxSize: maxSize}
}

func (l *Log) Emit(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	e.Seq = l.seq
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	l.events = append(l.events, e)

	if l.maxSize > 0 && len(l.events) > l.maxSize {
		l.events = l.events[len(l.events)-l.maxSize:]
	}
}

// Recent returns up to n of the newest events, oldest first.
func (l *Log) Recent(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.events) {
		n = len(l.events)
	}
	return append([]Event(nil), l.events[len(l.events)-n:]...)
}

// Events returns every retained event, oldest first.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// Total is the number of events ever emitted, including ones trimmed away.
func (l *Log) Total() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}
