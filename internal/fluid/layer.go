// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DefaultFPS is the frame rate when none is configured.
const DefaultFPS = 30

// FrameMsg asks the layer with the matching ID to advance one frame.
type FrameMsg struct {
	LayerID int64
	Time    time.Time
}

var layerSeq atomic.Int64

// Layer is the bubbletea component that owns one field. It is driven by
// the parent model: forward mouse, resize and FrameMsg messages to Update
// and draw with View or Overlay.
type Layer struct {
	id      int64
	theme   Theme
	profile termenv.Profile
	fps     int
	now     func() time.Time
	rng     Rand

	field  *Field
	canvas *Canvas

	cols, rows int
	ticking    bool
	disposed   bool
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithFPS sets the frame rate. Values below 1 use DefaultFPS.
func WithFPS(fps int) LayerOption {
	return func(l *Layer) {
		if fps > 0 {
			l.fps = fps
		}
	}
}

// WithClock replaces time.Now for pointer throttling.
func WithClock(now func() time.Time) LayerOption {
	return func(l *Layer) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLayerRand seeds the field's random source.
func WithLayerRand(r Rand) LayerOption {
	return func(l *Layer) { l.rng = r }
}

// WithViewport acquires the surface immediately at cols x rows cells.
func WithViewport(cols, rows int) LayerOption {
	return func(l *Layer) { l.cols, l.rows = cols, rows }
}

// NewLayer creates a layer for theme. Without a viewport the surface is
// acquired on the first tea.WindowSizeMsg. With termenv.Ascii it never is,
// and the layer stays inert.
func NewLayer(theme Theme, profile termenv.Profile, opts ...LayerOption) *Layer {
	l := &Layer{
		id:      layerSeq.Add(1),
		theme:   theme,
		profile: profile,
		fps:     DefaultFPS,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	var fieldOpts []FieldOption
	if l.rng != nil {
		fieldOpts = append(fieldOpts, WithRand(l.rng))
	}
	l.field = NewField(theme, fieldOpts...)
	l.acquire()
	return l
}

// acquire allocates the canvas when the terminal allows it.
func (l *Layer) acquire() {
	if l.canvas != nil {
		return
	}
	c, err := NewCanvas(l.cols, l.rows, l.field.Params(), l.profile)
	if err != nil {
		return
	}
	l.canvas = c
	l.field.Resize(c.PixelSize())
}

// ID identifies this layer's frame messages.
func (l *Layer) ID() int64 { return l.id }

// Theme returns the theme the layer was built for.
func (l *Layer) Theme() Theme { return l.theme }

// Field exposes the simulation, mostly for tests and diagnostics.
func (l *Layer) Field() *Field { return l.field }

// Active reports whether the layer has a surface and has not been disposed.
func (l *Layer) Active() bool { return l.canvas != nil && !l.disposed }

// Init starts the frame loop if a surface is available.
func (l *Layer) Init() tea.Cmd {
	return l.startFrames()
}

func (l *Layer) startFrames() tea.Cmd {
	if !l.Active() || l.ticking {
		return nil
	}
	l.ticking = true
	return l.frame()
}

func (l *Layer) frame() tea.Cmd {
	id := l.id
	return tea.Tick(time.Second/time.Duration(l.fps), func(t time.Time) tea.Msg {
		return FrameMsg{LayerID: id, Time: t}
	})
}

// Update consumes frame, mouse and resize messages. Anything else is
// ignored.
func (l *Layer) Update(msg tea.Msg) tea.Cmd {
	if l.disposed {
		return nil
	}

	switch msg := msg.(type) {
	case FrameMsg:
		if msg.LayerID != l.id {
			return nil
		}
		if l.canvas == nil {
			l.ticking = false
			return nil
		}
		l.field.Tick(l.canvas)
		return l.frame()

	case tea.MouseMsg:
		if l.canvas == nil {
			return nil
		}
		x := (float64(msg.X) + 0.5) * CellWidth
		y := (float64(msg.Y) + 0.5) * CellHeight
		l.field.Move(x, y, l.now())

	case tea.WindowSizeMsg:
		l.cols, l.rows = msg.Width, msg.Height
		if l.canvas == nil {
			l.acquire()
			return l.startFrames()
		}
		l.canvas.Resize(msg.Width, msg.Height)
		l.field.Resize(l.canvas.PixelSize())
	}
	return nil
}

// Dispose stops the layer. The pending frame, if any, is dropped on
// arrival and never rescheduled; further input is ignored.
func (l *Layer) Dispose() {
	l.disposed = true
	l.ticking = false
	l.canvas = nil
}

// View renders the whole background. An inert layer renders blank lines.
func (l *Layer) View() string {
	return l.Overlay("", 0, 0)
}

// Overlay places the foreground block fg with its top-left corner at cell
// (x, y). The canvas shows through to the left and right of every
// foreground line and on rows the block does not cover.
func (l *Layer) Overlay(fg string, x, y int) string {
	if l.cols <= 0 || l.rows <= 0 {
		return fg
	}
	if x < 0 {
		x = 0
	}

	var fgLines []string
	if fg != "" {
		fgLines = strings.Split(fg, "\n")
	}

	out := make([]string, l.rows)
	for r := 0; r < l.rows; r++ {
		i := r - y
		if i < 0 || i >= len(fgLines) {
			out[r] = l.segment(r, 0, l.cols)
			continue
		}
		line := fgLines[i]
		right := x + lipgloss.Width(line)
		out[r] = l.segment(r, 0, x) + line + l.segment(r, right, l.cols)
	}
	return strings.Join(out, "\n")
}

func (l *Layer) segment(row, x0, x1 int) string {
	if x1 <= x0 {
		return ""
	}
	if l.Active() {
		return l.canvas.Row(row, x0, x1)
	}
	return strings.Repeat(" ", x1-x0)
}
