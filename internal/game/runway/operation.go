package runway

import (
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/plane"
	"runway-simulator/pkg/types"
	"time"
)

// PerformOperation runs p's operation to the end, checkpointing every
// interval. A preempted normal plane goes back in line and carries on from
// its checkpoint once it is granted again.
func (s *Scheduler) PerformOperation(p *plane.Plane) {
	for !s.attempt(p) {
		s.RequestAccess(p)
	}
}

// attempt runs one stint on the runway. It returns false if p was
// preempted and requeued.
func (s *Scheduler) attempt(p *plane.Plane) bool {
	duration := s.config.Duration(p.Operation)
	interval := s.config.CheckpointInterval
	start := p.Checkpoint()
	remaining := Remaining(duration, start)

	if start > 0 {
		s.emit(p, event.RESUME, "Plane %d resuming %s from %d%% (remaining: %s)", p.ID, p.Operation, start, remaining)
	} else {
		s.emit(p, event.OPERATION, "Plane %d starting %s (duration: %s)", p.ID, p.Operation, duration)
	}

	ticks := int(remaining / interval)
	for i := 0; i < ticks; i++ {
		time.Sleep(interval)
		p.SetCheckpoint(Progress(start, i+1, interval, duration))

		// Nothing is left to yield after the last tick.
		if p.Priority == types.NORMAL && i < ticks-1 && s.emergencyPending.Load() {
			s.preempt(p)
			return false
		}
	}

	s.emit(p, event.FINISH, "Plane %d completed %s operation", p.ID, p.Operation)
	return true
}

// preempt gives up the runway and puts p back at the tail of the normal
// queue with its checkpoint intact.
func (s *Scheduler) preempt(p *plane.Plane) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Interrupt()
	s.preemptions.Inc()
	s.emit(p, event.PREEMPTION, "Plane %d interrupted at %d%% - yielding to emergency", p.ID, p.Checkpoint())

	s.vacate(p)
	s.emergencyPending.Store(false)

	s.queues[types.NORMAL].Reinsert(p)
	s.tickets[types.NORMAL]++
	s.checkTickets(types.NORMAL)
	p.Approach()

	s.emit(p, event.REQUEUE, "Plane %d re-queued to NORMAL queue with checkpoint at %d%%", p.ID, p.Checkpoint())
	s.cond.Broadcast()
}

// Remaining is how much of an operation is left after checkpoint percent
// of it has been done.
func Remaining(duration time.Duration, checkpoint int) time.Duration {
	elapsed := duration * time.Duration(checkpoint) / 100
	return duration - elapsed
}

// Progress is the checkpoint after tick n of an attempt that began at
// start percent. It stops at 99; only completion reaches 100.
func Progress(start, n int, interval, duration time.Duration) int {
	pct := start + int(time.Duration(n)*interval*100/duration)
	return min(pct, 99)
}
