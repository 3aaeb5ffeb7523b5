// Package runway admits planes to a single runway. Emergency planes are
// granted before normal ones, FIFO within a class, and a normal plane on
// the runway yields at its next checkpoint when an emergency arrives.
package runway

import (
	"errors"
	"fmt"
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/plane"
	"runway-simulator/internal/game/queue"
	"runway-simulator/pkg/types"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const DefaultCheckpointInterval = 500 * time.Millisecond

var (
	ErrClosed = errors.New("runway closed")
	ErrBusy   = errors.New("runway busy")
)

type Config struct {
	LandingDuration    time.Duration
	TakeoffDuration    time.Duration
	CheckpointInterval time.Duration
	// QueueCapacity bounds each class queue; 0 is unbounded.
	QueueCapacity int
}

func (c Config) Duration(op types.Operation) time.Duration {
	if op == types.LANDING {
		return c.LandingDuration
	}
	return c.TakeoffDuration
}

// Scheduler is the admission authority for one runway.
//
// mu guards the queues' membership together with the per-class tickets, so
// a ticket exists exactly when a queued plane does. Ownership of the runway
// is active != nil; it is held for a whole operation attempt and handed
// back only on preemption or completion.
type Scheduler struct {
	Name   string
	config Config
	sink   event.Sink

	mu      sync.Mutex
	cond    *sync.Cond
	queues  [2]*queue.Queue
	tickets [2]int
	active  *plane.Plane
	closed  bool

	emergencyPending atomic.Bool
	total            atomic.Int64
	completed        atomic.Int64
	preemptions      atomic.Int64
}

func NewScheduler(name string, cfg Config, sink event.Sink) *Scheduler {
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = DefaultCheckpointInterval
	}
	if sink == nil {
		sink = event.Discard
	}

	s := &Scheduler{
		Name:   name,
		config: cfg,
		sink:   sink,
	}
	s.cond = sync.NewCond(&s.mu)
	s.queues[types.EMERGENCY] = queue.NewQueue("EMERGENCY", cfg.QueueCapacity)
	s.queues[types.NORMAL] = queue.NewQueue("NORMAL", cfg.QueueCapacity)

	sink.Emit(event.System("Runway %s initialized (Landing: %s, Takeoff: %s)",
		name, cfg.LandingDuration, cfg.TakeoffDuration))
	return s
}

func (s *Scheduler) Config() Config {
	return s.config
}

// Operate drives p through its whole lifecycle and returns once it has
// completed. It fails only if p could not be queued.
func (s *Scheduler) Operate(p *plane.Plane) error {
	if err := s.Arrive(p); err != nil {
		return err
	}
	s.Fly(p)
	return nil
}

// Fly takes a plane that has already arrived through admission, its
// operation and release.
func (s *Scheduler) Fly(p *plane.Plane) {
	s.RequestAccess(p)
	s.PerformOperation(p)

	p.Complete(time.Now())
	s.Release(p)
	s.completed.Inc()

	st := p.Status()
	s.emit(p, event.COMPLETION, "Plane %d finished %s (Total time: %s)",
		p.ID, p.Operation, st.TurnaroundTime().Round(time.Millisecond))
}

// Arrive announces p and puts it in its class queue. Queue insertion and
// the class ticket happen in one critical section.
func (s *Scheduler) Arrive(p *plane.Plane) error {
	p.Arrive(time.Now())
	s.emit(p, event.ARRIVAL, "Plane %d (%s, %s) requesting runway access", p.ID, p.Priority, p.Operation)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("plane %d: %w", p.ID, ErrClosed)
	}

	q := s.queues[p.Priority]
	if err := q.Enqueue(p); err != nil {
		return fmt.Errorf("plane %d: enqueue %s: %w", p.ID, q.Name, err)
	}
	s.tickets[p.Priority]++
	s.checkTickets(p.Priority)
	s.total.Inc()

	if p.Priority == types.EMERGENCY {
		s.emergencyPending.Store(true)
	}
	p.Approach()

	s.emit(p, event.ENQUEUE, "Plane %d added to %s queue (Queue size: %d)", p.ID, q.Name, q.Count())
	s.cond.Broadcast()
	return nil
}

// RequestAccess blocks until p is granted the runway.
func (s *Scheduler) RequestAccess(p *plane.Plane) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.admissible(p) {
		s.cond.Wait()
	}
	s.grant(p)
}

// Release hands the runway back after p has completed.
func (s *Scheduler) Release(p *plane.Plane) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vacate(p)
	s.emit(p, event.RELEASE, "Plane %d released runway", p.ID)
	s.cond.Broadcast()
}

// Shutdown closes the runway to new arrivals. It fails while any plane is
// queued or on the runway.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return fmt.Errorf("%w: plane %d on runway", ErrBusy, s.active.ID)
	}
	for _, c := range types.Priorities {
		if n := s.queues[c].Count(); n > 0 {
			return fmt.Errorf("%w: %d planes in %s queue", ErrBusy, n, s.queues[c].Name)
		}
	}

	s.closed = true
	s.sink.Emit(event.System("Runway %s shutdown complete", s.Name))
	return nil
}

// Pending reports the class ticket count and queue length, read together.
func (s *Scheduler) Pending(c types.Priority) (tickets, queued int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[c], s.queues[c].Count()
}

func (s *Scheduler) Total() int       { return int(s.total.Load()) }
func (s *Scheduler) Completed() int   { return int(s.completed.Load()) }
func (s *Scheduler) Preemptions() int { return int(s.preemptions.Load()) }

// must hold s.mu
func (s *Scheduler) admissible(p *plane.Plane) bool {
	if s.active != nil || s.tickets[p.Priority] == 0 {
		return false
	}
	if p.Priority == types.NORMAL && s.tickets[types.EMERGENCY] > 0 {
		return false
	}
	head, ok := s.queues[p.Priority].Peek()
	return ok && head == p
}

// must hold s.mu
func (s *Scheduler) grant(p *plane.Plane) {
	if s.active != nil {
		panic(fmt.Sprintf("runway %s: plane %d granted while plane %d is active", s.Name, p.ID, s.active.ID))
	}

	head, ok := s.queues[p.Priority].Dequeue()
	if !ok || head != p {
		panic(fmt.Sprintf("runway %s: plane %d granted but is not at the head of the %s queue", s.Name, p.ID, p.Priority))
	}
	s.tickets[p.Priority]--
	s.checkTickets(p.Priority)

	s.active = p
	if p.Priority == types.NORMAL {
		// No emergency can be queued here, so any raised flag is stale.
		s.emergencyPending.Store(false)
	}
	p.UseRunway(time.Now())

	s.emit(p, event.GRANT, "%s Plane %d granted runway access", p.Priority, p.ID)
}

// must hold s.mu
func (s *Scheduler) vacate(p *plane.Plane) {
	if s.active != p {
		panic(fmt.Sprintf("runway %s: plane %d released a runway it does not hold", s.Name, p.ID))
	}
	s.active = nil
}

// must hold s.mu
func (s *Scheduler) checkTickets(c types.Priority) {
	if n := s.queues[c].Count(); s.tickets[c] != n {
		panic(fmt.Sprintf("runway %s: %s tickets %d but %d queued", s.Name, c, s.tickets[c], n))
	}
}

func (s *Scheduler) emit(p *plane.Plane, kind event.Kind, format string, args ...any) {
	s.sink.Emit(event.Event{
		Timestamp: time.Now(),
		PlaneID:   p.ID,
		Priority:  p.Priority,
		Kind:      kind,
		Detail:    fmt.Sprintf(format, args...),
	})
}
