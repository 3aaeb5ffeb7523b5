package simulation

import (
	"fmt"
	"runway-simulator/internal/game/plane"
	"runway-simulator/pkg/types"
	"time"

	"github.com/google/uuid"
)

type Stats struct {
	RunID          uuid.UUID
	Submitted      int
	Completed      int
	Preemptions    int
	EmergencyQueue int
	NormalQueue    int
	// AverageTurnaround is arrival to completion, per class, over completed planes.
	AverageTurnaround map[types.Priority]time.Duration
}

func (s *Simulation) Stats() Stats {
	snap := s.Runway.Snapshot(0)
	st := Stats{
		RunID:             s.ID,
		Submitted:         len(s.Planes()),
		Completed:         snap.Completed,
		Preemptions:       snap.Preemptions,
		EmergencyQueue:    snap.Emergency.Count,
		NormalQueue:       snap.Normal.Count,
		AverageTurnaround: map[types.Priority]time.Duration{},
	}

	counts := map[types.Priority]int{}
	for _, p := range s.Planes() {
		ps := p.Status()
		if ps.State != plane.COMPLETED {
			continue
		}
		st.AverageTurnaround[ps.Priority] += ps.TurnaroundTime()
		counts[ps.Priority]++
	}
	for c, n := range counts {
		st.AverageTurnaround[c] /= time.Duration(n)
	}
	return st
}

// Report renders the statistics block printed at the end of a run.
func (st Stats) Report() []string {
	lines := []string{
		"========== SIMULATION STATISTICS ==========",
		fmt.Sprintf("Run: %s", st.RunID),
		fmt.Sprintf("Total Planes Processed: %d/%d", st.Completed, st.Submitted),
		fmt.Sprintf("Emergency Preemptions: %d", st.Preemptions),
		fmt.Sprintf("Emergency Queue Final: %d", st.EmergencyQueue),
		fmt.Sprintf("Normal Queue Final: %d", st.NormalQueue),
	}
	for _, c := range types.Priorities {
		if avg, ok := st.AverageTurnaround[c]; ok {
			lines = append(lines, fmt.Sprintf("Average Turnaround (%s): %s", c, avg.Round(time.Millisecond)))
		}
	}
	return append(lines, "===========================================")
}
