package ui

import (
	"context"
	"runway-simulator/internal/game/event"
	"runway-simulator/pkg/types"
	"time"

	"github.com/gdamore/tcell/v2"
)

const refreshInterval = 200 * time.Millisecond

// Terminal is the full-screen console monitor.
type Terminal struct {
	screen tcell.Screen
	source Source
	events *event.Log
	done   <-chan struct{}
}

func NewTerminal(source Source, events *event.Log, done <-chan struct{}) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))

	return &Terminal{
		screen: screen,
		source: source,
		events: events,
		done:   done,
	}, nil
}

// Run redraws until the simulation is done and a key is pressed, or until
// Escape / Ctrl-C, or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	defer t.screen.Fini()

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			switch ev := t.screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || isClosed(t.done) {
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		t.render()
		t.screen.Show()

		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *Terminal) render() {
	t.screen.Clear()
	width, height := t.screen.Size()
	half := width / 2

	styleHeader := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true)
	styleTitle := tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleNormal := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleEmergency := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLog := tcell.StyleDefault.Foreground(tcell.ColorReset)
	styleHelp := tcell.StyleDefault.Foreground(tcell.ColorGray)

	drawText(t.screen, 0, 0, width, styleHeader, "  AIRPORT RUNWAY MANAGEMENT SYSTEM - Real-Time Monitor")

	snap := t.source.Snapshot(QueuePreview)

	runwayStyle := styleNormal
	if snap.Active != nil && snap.Active.Priority == types.EMERGENCY {
		runwayStyle = styleEmergency
	}
	drawLines(t.screen, 1, 2, half-2, styleTitle, runwayStyle, RunwayLines(snap, min(36, half-8)))
	drawLines(t.screen, half+1, 2, half-2, styleTitle, styleLog, StatsLines(snap))

	drawLines(t.screen, 1, 13, half-2, styleTitle, styleEmergency, QueueLines(snap.Emergency))
	drawLines(t.screen, half+1, 13, half-2, styleTitle, styleNormal, QueueLines(snap.Normal))

	logTop := 13 + QueuePreview + 3
	logRows := height - logTop - 2
	if logRows > 0 {
		drawText(t.screen, 0, logTop, width, styleTitle, "EVENT LOG")
		for i, line := range EventLines(t.events.Recent(logRows)) {
			drawText(t.screen, 1, logTop+1+i, width-1, styleLog, line)
		}
	}

	help := " [Esc] quit "
	if isClosed(t.done) {
		help = " SIMULATION COMPLETE - press any key to exit "
	}
	drawText(t.screen, 0, height-1, width, styleHelp, help)
}

// drawLines draws a panel whose first line is its title.
func drawLines(screen tcell.Screen, x, y, maxWidth int, titleStyle, bodyStyle tcell.Style, lines []string) {
	for i, line := range lines {
		style := bodyStyle
		if i == 0 {
			style = titleStyle
		}
		drawText(screen, x, y+i, maxWidth, style, line)
	}
}

func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for col < maxWidth {
		screen.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}
