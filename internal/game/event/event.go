// Package event carries plane lifecycle events from the scheduler to
// whatever records or displays them. Sinks never take part in scheduling.
package event

import (
	"fmt"
	"runway-simulator/pkg/types"
	"time"
)

type Kind int

const (
	ARRIVAL Kind = iota
	ENQUEUE
	GRANT
	OPERATION
	RESUME
	PREEMPTION
	REQUEUE
	FINISH
	RELEASE
	COMPLETION
	SYSTEM
)

var KindStringMap = map[Kind]string{
	ARRIVAL:    "ARRIVAL",
	ENQUEUE:    "QUEUE",
	GRANT:      "GRANTED",
	OPERATION:  "OPERATION",
	RESUME:     "RESUME",
	PREEMPTION: "PREEMPTED",
	REQUEUE:    "REQUEUE",
	FINISH:     "FINISHED",
	RELEASE:    "RELEASE",
	COMPLETION: "COMPLETED",
	SYSTEM:     "SYSTEM",
}

func (k Kind) String() string {
	if s, ok := KindStringMap[k]; ok {
		return s
	}
	return "UNKNOWN"
}

type Event struct {
	Seq       uint64
	Timestamp time.Time
	PlaneID   types.PlaneID
	Priority  types.Priority
	Kind      Kind
	Detail    string
}

// Tag is the bracketed label used in status lines.
func (e Event) Tag() string {
	if e.Kind == ENQUEUE && e.Priority == types.EMERGENCY {
		return "EMERGENCY"
	}
	return e.Kind.String()
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Tag(), e.Detail)
}

// Sink receives events. Implementations must be safe for concurrent use
// and must not block for longer than it takes to record one event.
type Sink interface {
	Emit(Event)
}

type discard struct{}

func (discard) Emit(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

type tee []Sink

func (t tee) Emit(e Event) {
	for _, s := range t {
		s.Emit(e)
	}
}

// Tee fans each event out to every sink in order.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

// System builds a SYSTEM event that is not tied to a plane.
func System(format string, args ...any) Event {
	return Event{
		Timestamp: time.Now(),
		Kind:      SYSTEM,
		Detail:    fmt.Sprintf(format, args...),
	}
}
