package plane

import (
	"fmt"
	"runway-simulator/internal/game/flightplan"
	"runway-simulator/pkg/types"
	"sync"
	"time"
)

type State int

const (
	WAITING State = iota
	APPROACHING
	USING_RUNWAY
	INTERRUPTED
	COMPLETED
)

var StateStringMap = map[State]string{
	WAITING:      "WAITING",
	APPROACHING:  "APPROACHING",
	USING_RUNWAY: "USING_RUNWAY",
	INTERRUPTED:  "INTERRUPTED",
	COMPLETED:    "COMPLETED",
}

func (s State) String() string {
	if str, ok := StateStringMap[s]; ok {
		return str
	}
	return "UNKNOWN"
}

var transitions = map[State][]State{
	WAITING:      {APPROACHING},
	APPROACHING:  {USING_RUNWAY},
	USING_RUNWAY: {INTERRUPTED, COMPLETED},
	INTERRUPTED:  {APPROACHING},
}

// Plane is one runway request. Identity fields are immutable; the rest is
// written by the goroutine driving the plane and read by displays, so it
// sits behind mu.
type Plane struct {
	ID        types.PlaneID
	Callsign  string
	Operation types.Operation
	Priority  types.Priority

	mu             sync.RWMutex
	state          State
	checkpoint     int
	preemptions    int
	arrivalTime    time.Time
	startTime      time.Time
	completionTime time.Time
}

// Status is a point-in-time copy of a plane, safe to hand to displays.
type Status struct {
	ID             types.PlaneID
	Callsign       string
	Operation      types.Operation
	Priority       types.Priority
	State          State
	Checkpoint     int
	Preemptions    int
	ArrivalTime    time.Time
	StartTime      time.Time
	CompletionTime time.Time
}

func NewPlane(fp flightplan.FlightPlan) *Plane {
	return &Plane{
		ID:        fp.ID,
		Callsign:  fp.Callsign,
		Operation: fp.Operation,
		Priority:  fp.Priority,
		state:     WAITING,
	}
}

func (p *Plane) String() string {
	return fmt.Sprintf("Plane %d (%s, %s, %s)", p.ID, p.Callsign, p.Priority, p.Operation)
}

func (p *Plane) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Plane) Checkpoint() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checkpoint
}

func (p *Plane) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Status{
		ID:             p.ID,
		Callsign:       p.Callsign,
		Operation:      p.Operation,
		Priority:       p.Priority,
		State:          p.state,
		Checkpoint:     p.checkpoint,
		Preemptions:    p.preemptions,
		ArrivalTime:    p.arrivalTime,
		StartTime:      p.startTime,
		CompletionTime: p.completionTime,
	}
}

// Arrive stamps the arrival time. Later calls keep the first stamp.
func (p *Plane) Arrive(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.arrivalTime.IsZero() {
		p.arrivalTime = now
	}
}

// Approach moves a WAITING or INTERRUPTED plane into the admission line.
func (p *Plane) Approach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transition(APPROACHING)
}

// UseRunway marks the grant. The start time is only set on the first one.
func (p *Plane) UseRunway(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transition(USING_RUNWAY)
	if p.startTime.IsZero() {
		p.startTime = now
	}
}

func (p *Plane) Interrupt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Priority == types.EMERGENCY {
		panic(fmt.Sprintf("plane %d: emergency planes cannot be preempted", p.ID))
	}
	p.transition(INTERRUPTED)
	p.preemptions++
}

func (p *Plane) Complete(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transition(COMPLETED)
	p.checkpoint = 100
	p.completionTime = now
}

// SetCheckpoint records progress while on the runway. Progress never goes
// backwards and 100 is reserved for Complete.
func (p *Plane) SetCheckpoint(pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pct < p.checkpoint || pct >= 100 {
		panic(fmt.Sprintf("plane %d: checkpoint %d%% after %d%%", p.ID, pct, p.checkpoint))
	}
	p.checkpoint = pct
}

// TurnaroundTime is the time from arrival to completion.
func (s Status) TurnaroundTime() time.Duration {
	if s.CompletionTime.IsZero() {
		return 0
	}
	return s.CompletionTime.Sub(s.ArrivalTime)
}

// must hold p.mu
func (p *Plane) transition(to State) {
	for _, allowed := range transitions[p.state] {
		if allowed == to {
			p.state = to
			return
		}
	}
	panic(fmt.Sprintf("plane %d: illegal transition %s -> %s", p.ID, p.state, to))
}
