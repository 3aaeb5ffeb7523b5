package runway

import (
	"runway-simulator/internal/game/plane"
	"runway-simulator/internal/game/queue"
	"runway-simulator/pkg/types"
)

type QueueView struct {
	Name     string
	Planes   []plane.Status
	Count    int
	Overflow int
}

// Snapshot is a consistent, read-only copy of the scheduler for displays.
type Snapshot struct {
	Runway           string
	Active           *plane.Status
	Emergency        QueueView
	Normal           QueueView
	EmergencyPending bool
	Total            int
	Completed        int
	Preemptions      int
}

// Snapshot copies the scheduler state, listing at most preview planes per
// queue.
func (s *Scheduler) Snapshot(preview int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Runway:           s.Name,
		Emergency:        view(s.queues[types.EMERGENCY], preview),
		Normal:           view(s.queues[types.NORMAL], preview),
		EmergencyPending: s.emergencyPending.Load(),
		Total:            s.Total(),
		Completed:        s.Completed(),
		Preemptions:      s.Preemptions(),
	}
	if s.active != nil {
		st := s.active.Status()
		snap.Active = &st
	}
	return snap
}

func view(q *queue.Queue, preview int) QueueView {
	planes, count := q.Preview(preview)
	v := QueueView{
		Name:     q.Name,
		Planes:   make([]plane.Status, 0, len(planes)),
		Count:    count,
		Overflow: count - len(planes),
	}
	for _, p := range planes {
		v.Planes = append(v.Planes, p.Status())
	}
	return v
}
