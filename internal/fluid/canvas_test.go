// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanvas_Unavailable(t *testing.T) {
	_, err := NewCanvas(80, 24, ParamsFor(ThemeDark), termenv.Ascii)
	assert.ErrorIs(t, err, ErrNoSurface)

	_, err = NewCanvas(0, 24, ParamsFor(ThemeDark), termenv.TrueColor)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestCanvas_ScreenBlendOnBlack(t *testing.T) {
	c, err := NewCanvas(10, 5, ParamsFor(ThemeDark), termenv.TrueColor)
	require.NoError(t, err)

	// Center of sample (2, 3) is (20, 28) in pixels.
	c.FillRadial(20, 28, 40, RGB{255, 255, 255}, 0.5)
	got := c.At(2, 3)
	assert.InDelta(t, 0.5, got.R, 1e-9)

	// Screen never darkens: a second pass only adds light.
	c.FillRadial(20, 28, 40, RGB{255, 255, 255}, 0.5)
	assert.InDelta(t, 0.75, c.At(2, 3).R, 1e-9)

	// Outside the radius stays background.
	assert.Equal(t, 0.0, c.At(9, 0).R)
}

func TestCanvas_SourceOverOnLight(t *testing.T) {
	c, err := NewCanvas(10, 5, ParamsFor(ThemeLight), termenv.TrueColor)
	require.NoError(t, err)

	c.FillRect(20, 28, SparkSize, SparkSize, RGB{210, 20, 35}, 1)
	assert.Equal(t, "#d21423", c.At(2, 3).Hex())

	c.Clear()
	assert.Equal(t, "#fafafa", c.At(2, 3).Hex())
}

func TestCanvas_FillOffscreenIsSafe(t *testing.T) {
	c, err := NewCanvas(4, 2, ParamsFor(ThemeDark), termenv.TrueColor)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		c.FillRadial(-500, -500, 30, RGB{255, 0, 0}, 1)
		c.FillRadial(5000, 5000, 30, RGB{255, 0, 0}, 1)
		c.FillRect(-10, 1000, SparkSize, SparkSize, RGB{255, 0, 0}, 1)
	})
	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 4; sx++ {
			assert.Equal(t, "#000000", c.At(sx, sy).Hex())
		}
	}
}

func TestCanvas_RowMergesRuns(t *testing.T) {
	c, err := NewCanvas(12, 3, ParamsFor(ThemeDark), termenv.TrueColor)
	require.NoError(t, err)

	row := c.Row(1, 0, 12)
	assert.Equal(t, 12, strings.Count(row, halfBlock))
	assert.Equal(t, 1, strings.Count(row, "\x1b[0m"), "a uniform row is one styled run")

	c.FillRect(40, 16, SparkSize, SparkSize, RGB{255, 255, 255}, 1)
	row = c.Row(1, 0, 12)
	assert.Equal(t, 12, strings.Count(row, halfBlock))
	assert.Equal(t, 3, strings.Count(row, "\x1b[0m"), "one lit cell splits the row in three")

	assert.Equal(t, 3, strings.Count(c.Row(0, 2, 5), halfBlock))
	assert.Empty(t, c.Row(5, 0, 12))
	assert.Empty(t, c.Row(0, 6, 6))
}

func TestCanvas_Resize(t *testing.T) {
	c, err := NewCanvas(4, 2, ParamsFor(ThemeDark), termenv.TrueColor)
	require.NoError(t, err)

	c.Resize(20, 10)
	cols, rows := c.Size()
	assert.Equal(t, 20, cols)
	assert.Equal(t, 10, rows)
	w, h := c.PixelSize()
	assert.Equal(t, 160.0, w)
	assert.Equal(t, 160.0, h)
	assert.Len(t, strings.Split(c.Render(), "\n"), 10)
}
