package conflict

import (
	"fmt"
	"runway-simulator/internal/game/event"
	"runway-simulator/pkg/types"
)

// CheckSeparation replays the event history and reports the first time two
// planes held the runway at once, or a plane left a runway it did not hold.
// A grant takes the runway; a preemption or release gives it back.
func CheckSeparation(events []event.Event) error {
	var occupant types.PlaneID
	occupied := false

	for _, e := range events {
		switch e.Kind {
		case event.GRANT:
			if occupied {
				return fmt.Errorf("event %d: plane %d granted while plane %d holds the runway", e.Seq, e.PlaneID, occupant)
			}
			occupant, occupied = e.PlaneID, true
		case event.PREEMPTION, event.RELEASE:
			if !occupied || occupant != e.PlaneID {
				return fmt.Errorf("event %d: plane %d left a runway it does not hold", e.Seq, e.PlaneID)
			}
			occupied = false
		}
	}
	return nil
}

// CheckPriority reports the first normal-priority grant made while an
// emergency plane was queued.
func CheckPriority(events []event.Event) error {
	waiting := map[types.PlaneID]bool{}

	for _, e := range events {
		switch e.Kind {
		case event.ENQUEUE:
			if e.Priority == types.EMERGENCY {
				waiting[e.PlaneID] = true
			}
		case event.GRANT:
			if e.Priority == types.EMERGENCY {
				delete(waiting, e.PlaneID)
				continue
			}
			for id := range waiting {
				return fmt.Errorf("event %d: normal plane %d granted while emergency plane %d waits", e.Seq, e.PlaneID, id)
			}
		}
	}
	return nil
}

// CheckPreemptions reports a preemption of anything but a normal plane, or
// one with no emergency plane waiting to take over.
func CheckPreemptions(events []event.Event) error {
	waiting := 0
	for _, e := range events {
		switch e.Kind {
		case event.ENQUEUE:
			if e.Priority == types.EMERGENCY {
				waiting++
			}
		case event.GRANT:
			if e.Priority == types.EMERGENCY {
				waiting--
			}
		case event.PREEMPTION:
			if e.Priority != types.NORMAL {
				return fmt.Errorf("event %d: %s plane %d was preempted", e.Seq, e.Priority, e.PlaneID)
			}
			if waiting == 0 {
				return fmt.Errorf("event %d: plane %d preempted with no emergency waiting", e.Seq, e.PlaneID)
			}
		}
	}
	return nil
}
