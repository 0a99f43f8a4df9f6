// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constRand always returns the same value.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

// recordingSurface counts draw calls.
type recordingSurface struct {
	clears  int
	radials int
	rects   []rectCall
}

type rectCall struct {
	color RGB
	alpha float64
}

func (s *recordingSurface) Clear() { s.clears++ }

func (s *recordingSurface) FillRadial(x, y, radius float64, c RGB, alpha float64) { s.radials++ }

func (s *recordingSurface) FillRect(x, y, w, h float64, c RGB, alpha float64) {
	s.rects = append(s.rects, rectCall{color: c, alpha: alpha})
}

var t0 = time.Date(2025, 3, 26, 12, 0, 0, 0, time.UTC)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

// =============================================================================
// SPAWN TESTS
// =============================================================================

func TestBurstSize(t *testing.T) {
	tests := []struct {
		speed float64
		want  int
	}{
		{0, 4},
		{1.7, 4},
		{1.8, 5},
		{10, 9},
		{19.8, 15},
		{1000, 15},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BurstSize(tc.speed), "BurstSize(%v)", tc.speed)
	}
}

func TestField_MoveSpawnsAlongSegment(t *testing.T) {
	f := NewField(ThemeDark, WithRand(constRand(0.5)))

	n := f.Move(100, 0, t0)
	require.Equal(t, 15, n)
	require.Equal(t, 15, f.Len())

	ps := f.Particles()
	xs := make([]float64, len(ps))
	for i, p := range ps {
		xs[i] = p.X
		assert.InDelta(t, 15.0, p.VX, 1e-9, "vx carries 15%% of the delta with zero jitter")
		assert.InDelta(t, 0.0, p.VY, 1e-9)
		assert.Equal(t, InitialSize, p.Size)
		assert.InDelta(t, 0.5*28+6, p.TargetSize, 1e-9)
		assert.Equal(t, 95, p.MaxLife)
		assert.Equal(t, p.MaxLife, p.Life)
	}
	sort.Float64s(xs)
	assert.InDelta(t, 100-100*14.0/15.0, xs[0], 1e-9)
	assert.InDelta(t, 100.0, xs[len(xs)-1], 1e-9)

	ptr := f.Pointer()
	assert.Equal(t, 100.0, ptr.X)
	assert.Equal(t, 100.0, ptr.DX)
	assert.Equal(t, t0, ptr.LastSpawn)
}

func TestField_MoveThrottled(t *testing.T) {
	f := NewField(ThemeDark, WithRand(constRand(0.5)))

	require.Positive(t, f.Move(10, 10, t0))
	before := f.Len()

	assert.Zero(t, f.Move(20, 10, t0.Add(3*time.Millisecond)), "second burst inside 6ms")
	assert.Equal(t, before, f.Len())
	assert.Equal(t, 20.0, f.Pointer().X, "pointer still tracks throttled moves")
	assert.Equal(t, t0, f.Pointer().LastSpawn)

	assert.Positive(t, f.Move(30, 10, t0.Add(10*time.Millisecond)))
}

func TestField_JitterBounded(t *testing.T) {
	f := NewField(ThemeLight, WithRand(seededRand()))
	now := t0
	for i := 0; i < 40; i++ {
		now = now.Add(7 * time.Millisecond)
		f.Move(float64(i*13), float64(i*7), now)
	}
	require.Positive(t, f.Len())

	for _, p := range f.Particles() {
		// Every particle from this walk was spawned with delta (13, 7) except
		// the first burst, whose delta is measured from the origin.
		jx := p.VX - 13*VelocityCarry
		jy := p.VY - 7*VelocityCarry
		if p.X < 1 && p.Y < 1 {
			continue
		}
		assert.LessOrEqual(t, math.Abs(jx), JitterSpan/2+1e-9)
		assert.LessOrEqual(t, math.Abs(jy), JitterSpan/2+1e-9)
	}
}

func TestField_CapNeverExceeded(t *testing.T) {
	for _, theme := range []Theme{ThemeDark, ThemeLight} {
		t.Run(theme.String(), func(t *testing.T) {
			f := NewField(theme, WithRand(seededRand()))
			limit := f.Params().MaxParticles
			now := t0
			for i := 0; i < 400; i++ {
				now = now.Add(7 * time.Millisecond)
				f.Move(float64(i%50)*40, float64(i%30)*25, now)
				require.LessOrEqual(t, f.Len(), limit)
			}
			assert.Equal(t, limit, f.Len(), "a long fast walk fills the pool")
		})
	}
}

func TestParamsFor(t *testing.T) {
	assert.Equal(t, 1200, ParamsFor(ThemeDark).MaxParticles)
	assert.Equal(t, 900, ParamsFor(ThemeLight).MaxParticles)
	assert.Equal(t, BlendScreen, ParamsFor(ThemeDark).Blend)
	assert.Equal(t, BlendSourceOver, ParamsFor(ThemeLight).Blend)
	assert.Equal(t, 0.25, ParamsFor(ThemeDark).AlphaCeiling)
	assert.Equal(t, 0.35, ParamsFor(ThemeLight).AlphaCeiling)
	assert.Equal(t, ThemeLight, ParseTheme(" Light "))
	assert.Equal(t, ThemeDark, ParseTheme("auto"))
}

// =============================================================================
// TICK TESTS
// =============================================================================

func lives(ps []Particle) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Life
	}
	sort.Ints(out)
	return out
}

func TestField_LifeStrictlyDecreasingAndDeadRemoved(t *testing.T) {
	f := NewField(ThemeDark, WithRand(seededRand()))
	now := t0
	for i := 0; i < 10; i++ {
		now = now.Add(7 * time.Millisecond)
		f.Move(float64(i)*30, 200, now)
	}

	for tick := 0; f.Len() > 0; tick++ {
		require.Less(t, tick, MinLife+LifeSpread+1, "particles outlived their maximum lifetime")

		before := lives(f.Particles())
		f.Tick(nil)
		after := lives(f.Particles())

		var want []int
		for _, l := range before {
			if l-1 > 0 {
				want = append(want, l-1)
			}
		}
		require.Equal(t, len(want), len(after), "tick %d", tick)
		if len(want) > 0 {
			assert.Equal(t, want, after, "tick %d: every survivor loses exactly one life", tick)
		}
		for _, p := range f.Particles() {
			assert.Positive(t, p.Life)
			assert.GreaterOrEqual(t, p.Size, MinSize)
		}
	}
}

func TestField_TickDrawsEveryParticle(t *testing.T) {
	f := NewField(ThemeDark, WithRand(constRand(0.5)))
	f.Move(50, 50, t0)
	n := f.Len()

	s := &recordingSurface{}
	f.Tick(s)

	assert.Equal(t, 1, s.clears)
	assert.Equal(t, n, s.radials)
	assert.Empty(t, s.rects, "0.5 never clears the spark threshold")
}

func TestField_SparkColors(t *testing.T) {
	dark := NewField(ThemeDark, WithRand(constRand(0.99)))
	dark.Move(50, 50, t0)
	s := &recordingSurface{}
	dark.Tick(s)
	require.NotEmpty(t, s.rects)
	assert.Equal(t, RGB{255, 255, 255}, s.rects[0].color)

	light := NewField(ThemeLight, WithRand(constRand(0.99)))
	light.Move(50, 50, t0)
	s = &recordingSurface{}
	light.Tick(s)
	require.NotEmpty(t, s.rects)
	assert.Equal(t, light.Params().Palette[3], s.rects[0].color, "0.99 picks the last palette entry")
}

func TestField_NoSparkLateInLife(t *testing.T) {
	f := NewField(ThemeDark, WithRand(constRand(0.99)))
	f.Move(50, 50, t0)
	// life fraction falls to 0.4 after 60% of 139 ticks.
	for i := 0; i < 84; i++ {
		f.Tick(nil)
	}
	s := &recordingSurface{}
	f.Tick(s)
	assert.Empty(t, s.rects)
}

func TestField_ResizeKeepsParticles(t *testing.T) {
	f := NewField(ThemeDark, WithRand(constRand(0.5)), WithBounds(800, 600))
	f.Move(700, 500, t0)
	before := f.Particles()

	f.Resize(100, 100)

	w, h := f.Bounds()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 100.0, h)
	assert.Equal(t, before, f.Particles())
}

func TestParticle_Alpha(t *testing.T) {
	p := Particle{Life: 50, MaxLife: 100}
	assert.InDelta(t, 0.25, p.Alpha(0.25), 1e-9)

	p.Life = 100
	assert.InDelta(t, 0, p.Alpha(0.25), 1e-9)

	p.Life = 0
	assert.InDelta(t, 0, p.Alpha(0.35), 1e-9)
}
