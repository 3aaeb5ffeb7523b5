// Package ui renders read-only views of a running runway: a terminal
// dashboard and a desktop window. Neither feeds anything back into
// scheduling.
package ui

import (
	"fmt"
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/runway"
	"strings"
)

// QueuePreview is how many queued planes a queue panel lists.
const QueuePreview = 8

// Source is what the dashboards read from.
type Source interface {
	Snapshot(preview int) runway.Snapshot
}

// ProgressBar draws pct as a runway of the given width with the plane's
// position marked.
func ProgressBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	pos := min(width*pct/100, width-1)

	var b strings.Builder
	b.WriteByte('|')
	for i := 0; i < width; i++ {
		switch {
		case i == pos:
			b.WriteByte('*')
		case i < pos:
			b.WriteByte('=')
		default:
			b.WriteByte(' ')
		}
	}
	b.WriteByte('|')
	return b.String()
}

func RunwayLines(snap runway.Snapshot, barWidth int) []string {
	lines := []string{fmt.Sprintf("RUNWAY %s", snap.Runway)}
	if snap.Active == nil {
		return append(lines, "", "  Runway clear - awaiting next plane")
	}

	a := snap.Active
	return append(lines,
		"",
		fmt.Sprintf("  Plane ID:   #%d %s", a.ID, a.Callsign),
		fmt.Sprintf("  Priority:   %s", a.Priority),
		fmt.Sprintf("  Operation:  %s", a.Operation),
		fmt.Sprintf("  State:      %s", a.State),
		"",
		"  "+ProgressBar(a.Checkpoint, barWidth),
		fmt.Sprintf("  Progress:   %d%%", a.Checkpoint),
	)
}

func StatsLines(snap runway.Snapshot) []string {
	pending := "no"
	if snap.EmergencyPending {
		pending = "YES"
	}
	return []string{
		"STATISTICS",
		"",
		fmt.Sprintf("  Planes arrived:     %d", snap.Total),
		fmt.Sprintf("  Planes completed:   %d", snap.Completed),
		fmt.Sprintf("  Preemptions:        %d", snap.Preemptions),
		fmt.Sprintf("  Emergency queue:    %d", snap.Emergency.Count),
		fmt.Sprintf("  Normal queue:       %d", snap.Normal.Count),
		fmt.Sprintf("  Emergency pending:  %s", pending),
	}
}

func QueueLines(v runway.QueueView) []string {
	lines := []string{fmt.Sprintf("%s QUEUE (%d)", v.Name, v.Count)}
	if v.Count == 0 {
		return append(lines, "  (empty)")
	}
	for i, p := range v.Planes {
		line := fmt.Sprintf("  %d. #%d %-7s %s", i+1, p.ID, p.Callsign, p.Operation)
		if p.Checkpoint > 0 {
			line += fmt.Sprintf(" (resume %d%%)", p.Checkpoint)
		}
		lines = append(lines, line)
	}
	if v.Overflow > 0 {
		lines = append(lines, fmt.Sprintf("  ... and %d more", v.Overflow))
	}
	return lines
}

func EventLines(events []event.Event) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, e.Timestamp.Format("15:04:05")+" "+e.String())
	}
	return lines
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
