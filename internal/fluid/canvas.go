// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import (
	"errors"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// =============================================================================
// GEOMETRY
// =============================================================================

const (
	// CellWidth and CellHeight are the virtual pixel size of one terminal cell.
	CellWidth  = 8
	CellHeight = 16

	// samplesPerCell stacks two samples in each cell (upper half block).
	samplesPerCell = 2

	// sampleSize is the virtual pixel pitch of one sample in both axes.
	sampleSize = CellHeight / samplesPerCell

	halfBlock = "▀"
)

// ErrNoSurface is returned when the terminal cannot show the field: it has
// no color support or no known size.
var ErrNoSurface = errors.New("fluid: drawing surface unavailable")

// =============================================================================
// CANVAS
// =============================================================================

// Canvas is a Surface made of terminal cells. Each cell carries two samples
// and renders as "▀" with the top sample as foreground and the bottom as
// background.
type Canvas struct {
	cols, rows int
	samples    []colorful.Color
	background colorful.Color
	blend      Blend
	profile    termenv.Profile
}

// NewCanvas acquires a canvas of cols x rows cells.
func NewCanvas(cols, rows int, params Params, profile termenv.Profile) (*Canvas, error) {
	if profile == termenv.Ascii || cols <= 0 || rows <= 0 {
		return nil, ErrNoSurface
	}
	c := &Canvas{
		background: params.Background.Colorful(),
		blend:      params.Blend,
		profile:    profile,
	}
	c.Resize(cols, rows)
	return c, nil
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// PixelSize returns the canvas size in virtual pixels.
func (c *Canvas) PixelSize() (width, height float64) {
	return float64(c.cols * CellWidth), float64(c.rows * CellHeight)
}

// Resize reallocates the sample buffer, cleared to the background.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols, c.rows = cols, rows
	n := cols * rows * samplesPerCell
	if cap(c.samples) >= n {
		c.samples = c.samples[:n]
	} else {
		c.samples = make([]colorful.Color, n)
	}
	c.Clear()
}

// Clear implements Surface.
func (c *Canvas) Clear() {
	for i := range c.samples {
		c.samples[i] = c.background
	}
}

// FillRadial implements Surface. Each sample inside the disc gets
// alpha*(1-d/radius) of the color, composited with the canvas blend mode.
func (c *Canvas) FillRadial(x, y, radius float64, col RGB, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	src := col.Colorful()
	x0, x1 := c.sampleRange(x-radius, x+radius, CellWidth, c.cols)
	y0, y1 := c.sampleRange(y-radius, y+radius, sampleSize, c.rows*samplesPerCell)
	for sy := y0; sy <= y1; sy++ {
		cy := (float64(sy) + 0.5) * sampleSize
		for sx := x0; sx <= x1; sx++ {
			cx := (float64(sx) + 0.5) * CellWidth
			d := math.Hypot(cx-x, cy-y) / radius
			if d >= 1 {
				continue
			}
			c.composite(sx, sy, src, alpha*(1-d))
		}
	}
}

// FillRect implements Surface. Rectangles smaller than a sample light the
// sample containing their origin.
func (c *Canvas) FillRect(x, y, w, h float64, col RGB, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	src := col.Colorful()
	x0, x1 := c.sampleRange(x, x+w, CellWidth, c.cols)
	y0, y1 := c.sampleRange(y, y+h, sampleSize, c.rows*samplesPerCell)
	for sy := y0; sy <= y1; sy++ {
		for sx := x0; sx <= x1; sx++ {
			c.composite(sx, sy, src, alpha)
		}
	}
}

// sampleRange converts a pixel span to an inclusive, clamped sample span.
// An empty result has hi < lo.
func (c *Canvas) sampleRange(from, to, pitch float64, limit int) (lo, hi int) {
	lo = int(math.Floor(from / pitch))
	hi = int(math.Floor(to / pitch))
	if lo < 0 {
		lo = 0
	}
	if hi > limit-1 {
		hi = limit - 1
	}
	return lo, hi
}

func (c *Canvas) composite(sx, sy int, src colorful.Color, a float64) {
	i := sy*c.cols + sx
	dst := c.samples[i]
	switch c.blend {
	case BlendScreen:
		dst.R += a * src.R * (1 - dst.R)
		dst.G += a * src.G * (1 - dst.G)
		dst.B += a * src.B * (1 - dst.B)
	default:
		dst.R = a*src.R + (1-a)*dst.R
		dst.G = a*src.G + (1-a)*dst.G
		dst.B = a*src.B + (1-a)*dst.B
	}
	c.samples[i] = dst.Clamped()
}

// At returns the sample at column sx and sample row sy (two per cell row).
func (c *Canvas) At(sx, sy int) colorful.Color {
	if sx < 0 || sy < 0 || sx >= c.cols || sy >= c.rows*samplesPerCell {
		return c.background
	}
	return c.samples[sy*c.cols+sx]
}

// =============================================================================
// RENDERING
// =============================================================================

// Row renders cells [x0, x1) of cell row y. Runs of identical cells share
// one escape sequence.
func (c *Canvas) Row(y, x0, x1 int) string {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > c.cols {
		x1 = c.cols
	}
	if y < 0 || y >= c.rows || x0 >= x1 {
		return ""
	}

	var b strings.Builder
	top := y * samplesPerCell * c.cols
	bottom := top + c.cols

	runStart := x0
	runFg, runBg := c.samples[top+x0].Hex(), c.samples[bottom+x0].Hex()
	for x := x0 + 1; x <= x1; x++ {
		if x < x1 {
			fg, bg := c.samples[top+x].Hex(), c.samples[bottom+x].Hex()
			if fg == runFg && bg == runBg {
				continue
			}
			b.WriteString(c.cells(x-runStart, runFg, runBg))
			runStart, runFg, runBg = x, fg, bg
			continue
		}
		b.WriteString(c.cells(x-runStart, runFg, runBg))
	}
	return b.String()
}

func (c *Canvas) cells(n int, fg, bg string) string {
	return c.profile.String(strings.Repeat(halfBlock, n)).
		Foreground(c.profile.Color(fg)).
		Background(c.profile.Color(bg)).
		String()
}

// Render returns the whole canvas, one line per cell row.
func (c *Canvas) Render() string {
	lines := make([]string, c.rows)
	for y := range lines {
		lines[y] = c.Row(y, 0, c.cols)
	}
	return strings.Join(lines, "\n")
}
