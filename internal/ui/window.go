package ui

import (
	"image/color"
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/runway"
	"runway-simulator/pkg/types"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	lineHeight = 16
	queueTop   = 290
)

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorHeader     = color.RGBA{0, 0, 120, 255}
	colorAsphalt    = color.RGBA{60, 60, 60, 255}
	colorMarking    = color.RGBA{255, 255, 255, 255}
	colorPanel      = color.RGBA{0, 100, 0, 255}
	colorNormal     = color.RGBA{0, 255, 0, 255}
	colorEmergency  = color.RGBA{255, 0, 0, 255}
)

// Window is the desktop monitor. It implements ebiten.Game.
type Window struct {
	width, height int
	source        Source
	events        *event.Log
	done          <-chan struct{}

	snap runway.Snapshot
}

func NewWindow(screenWidth, screenHeight int, source Source, events *event.Log, done <-chan struct{}) *Window {
	return &Window{
		width:  screenWidth,
		height: screenHeight,
		source: source,
		events: events,
		done:   done,
	}
}

// RunWindow blocks on the calling goroutine until the window is closed.
func RunWindow(w *Window, title string) error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(10)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	w.snap = w.source.Snapshot(QueuePreview)

	if isClosed(w.done) {
		if len(inpututil.AppendJustPressedKeys(nil)) > 0 || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			return ebiten.Termination
		}
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	vector.DrawFilledRect(screen, 0, 0, float32(w.width), 24, colorHeader, false)
	ebitenutil.DebugPrintAt(screen, "AIRPORT RUNWAY MANAGEMENT SYSTEM - Real-Time Monitor", 10, 4)

	half := w.width / 2
	w.drawRunway(screen, 10, 40, half-20)
	w.drawPanel(screen, half+10, 40, half-20, StatsLines(w.snap))
	w.drawPanel(screen, 10, queueTop, half-20, QueueLines(w.snap.Emergency))
	w.drawPanel(screen, half+10, queueTop, half-20, QueueLines(w.snap.Normal))

	logTop := queueTop + (QueuePreview+3)*lineHeight
	rows := (w.height - logTop - 2*lineHeight) / lineHeight
	if rows > 0 {
		lines := append([]string{"EVENT LOG"}, EventLines(w.events.Recent(rows))...)
		w.drawPanel(screen, 10, logTop, w.width-20, lines)
	}

	if isClosed(w.done) {
		ebitenutil.DebugPrintAt(screen, "SIMULATION COMPLETE - press any key to exit", 10, w.height-lineHeight-4)
	}
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return w.width, w.height
}

func (w *Window) drawPanel(screen *ebiten.Image, x, y, width int, lines []string) {
	height := len(lines)*lineHeight + 8
	vector.StrokeRect(screen, float32(x), float32(y), float32(width), float32(height), 1, colorPanel, false)
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), x+6, y+4)
}

// drawRunway draws the runway strip with the active plane at its progress
// along it, then the runway panel text below.
func (w *Window) drawRunway(screen *ebiten.Image, x, y, width int) {
	stripY := float32(y + 10)
	vector.DrawFilledRect(screen, float32(x), stripY, float32(width), 40, colorAsphalt, false)
	for dx := 10; dx < width-20; dx += 30 {
		vector.StrokeLine(screen, float32(x+dx), stripY+20, float32(x+dx+15), stripY+20, 2, colorMarking, false)
	}

	lines := RunwayLines(w.snap, 30)
	if a := w.snap.Active; a != nil {
		c := colorNormal
		if a.Priority == types.EMERGENCY {
			c = colorEmergency
		}
		px := float32(x) + float32(width)*float32(a.Checkpoint)/100
		vector.DrawFilledCircle(screen, px, stripY+20, 10, c, false)
	}

	w.drawPanel(screen, x, y+60, width, lines)
}
