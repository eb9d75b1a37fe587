// Package scope renders a live goniometer (stereo vector scope) and
// decode status line to the terminal while a `decode --scope` run is in
// progress, adapted from the teacher's tcell terminal backend.
package scope

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/dvstimecode/timecode"
)

const (
	minTermWidth  = 40
	minTermHeight = 16
	logPanelRows  = 6
)

// DrawEvent is one stereo sample and the decoder state it produced,
// enough to plot a goniometer dot and a status line.
type DrawEvent struct {
	Left, Right int16
	Position    uint32
	HasPosition bool
	Direction   timecode.Direction
	Pitch       float64
}

// Scope owns a tcell.Screen and the log buffer fed by a LogBufferHandler
// installed as the default slog handler for the duration of the run.
type Scope struct {
	screen    tcell.Screen
	logBuffer *LogBuffer
}

// New opens a terminal screen and installs a log handler that captures
// records into an internal buffer instead of writing them to stdout,
// which would otherwise scroll the plot off screen.
func New() (*Scope, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("scope: failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("scope: failed to initialize terminal screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	logBuffer := NewLogBuffer(100)
	slog.SetDefault(slog.New(NewLogBufferHandler(logBuffer, slog.LevelDebug)))

	return &Scope{screen: screen, logBuffer: logBuffer}, nil
}

// Close releases the terminal.
func (s *Scope) Close() {
	s.screen.Fini()
}

// PollQuit reports whether the user has requested to quit (Esc, q, or
// Ctrl-C), draining any other pending input events.
func (s *Scope) PollQuit() bool {
	for s.screen.HasPendingEvent() {
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return true
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
	return false
}

// Draw plots ev's stereo sample as a goniometer dot and refreshes the
// status line and log panel.
func (s *Scope) Draw(ev DrawEvent) {
	width, height := s.screen.Size()
	if width < minTermWidth || height < minTermHeight {
		s.drawTooSmall(width, height)
		s.screen.Show()
		return
	}

	s.screen.Clear()

	plotHeight := height - logPanelRows - 2
	s.drawGoniometer(ev, width, plotHeight)
	s.drawStatus(ev, 0, plotHeight+1, width)
	s.drawLogs(0, plotHeight+2, width, height)

	s.screen.Show()
}

func (s *Scope) drawTooSmall(width, height int) {
	s.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	msg := fmt.Sprintf("terminal too small, need at least %dx%d", minTermWidth, minTermHeight)
	for i, ch := range msg {
		if i < width {
			s.screen.SetContent(i, height/2, ch, nil, style)
		}
	}
}

// drawGoniometer plots left/right as a 45-degree-rotated X/Y dot: mid/side
// encoding, matching how a vinyl cartridge's two coils see the same
// carrier a quarter-cycle apart.
func (s *Scope) drawGoniometer(ev DrawEvent, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	centerX, centerY := width/2, height/2
	radius := math.Min(float64(centerX), float64(centerY)) - 1

	l := float64(ev.Left) / math.MaxInt16
	r := float64(ev.Right) / math.MaxInt16

	mid := (l + r) / math.Sqrt2
	side := (l - r) / math.Sqrt2

	x := centerX + int(mid*radius)
	y := centerY - int(side*radius)

	axisStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i := 0; i < width; i++ {
		s.screen.SetContent(i, centerY, '-', nil, axisStyle)
	}
	for j := 0; j < height; j++ {
		s.screen.SetContent(centerX, j, '|', nil, axisStyle)
	}

	if x >= 0 && x < width && y >= 0 && y < height {
		s.screen.SetContent(x, y, '*', nil, tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	}
}

func (s *Scope) drawStatus(ev DrawEvent, x, y, width int) {
	position := "-"
	if ev.HasPosition {
		position = fmt.Sprintf("%d", ev.Position)
	}

	line := fmt.Sprintf(" position=%s direction=%s pitch=%.3f ", position, ev.Direction, ev.Pitch)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for i, ch := range line {
		if x+i >= width {
			break
		}
		s.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (s *Scope) drawLogs(x, startY, width, height int) {
	available := height - startY
	if available <= 0 {
		return
	}

	entries := s.logBuffer.GetRecent(available)
	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range entries {
		y := startY + i
		if y >= height {
			break
		}

		style := infoStyle
		switch entry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		text := FormatLogEntry(entry)
		if len(text) > width {
			text = text[:width]
		}
		for j, ch := range text {
			if x+j >= width {
				break
			}
			s.screen.SetContent(x+j, y, ch, nil, style)
		}
	}
}
