// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import (
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

const (
	// SpawnInterval is the minimum time between two bursts.
	SpawnInterval = 6 * time.Millisecond

	// Burst size is min(floor(speed/SpeedPerParticle)+MinBurst, MaxBurst).
	SpeedPerParticle = 1.8
	MinBurst         = 4
	MaxBurst         = 15
)

// Rand is the random source the field draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Surface is anything a field can draw on.
type Surface interface {
	// Clear resets every sample to the background.
	Clear()
	// FillRadial paints a disc that fades from c at alpha in the center to
	// transparent at radius.
	FillRadial(x, y, radius float64, c RGB, alpha float64)
	// FillRect paints a solid rectangle.
	FillRect(x, y, w, h float64, c RGB, alpha float64)
}

// Pointer is the last known pointer state.
type Pointer struct {
	X, Y      float64
	DX, DY    float64
	LastSpawn time.Time
}

// Field is the particle simulation. It is not safe for concurrent use; the
// owning bubbletea model drives it from Update only.
type Field struct {
	params  Params
	rng     Rand
	pool    pool
	pointer Pointer
	limiter *rate.Limiter

	width, height float64
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithRand replaces the default random source.
func WithRand(r Rand) FieldOption {
	return func(f *Field) {
		if r != nil {
			f.rng = r
		}
	}
}

// WithBounds sets the initial viewport size in virtual pixels.
func WithBounds(width, height float64) FieldOption {
	return func(f *Field) {
		f.width, f.height = width, height
	}
}

// NewField creates an empty field for a theme.
func NewField(theme Theme, opts ...FieldOption) *Field {
	params := ParamsFor(theme)
	f := &Field{
		params:  params,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x1c7b)),
		pool:    newPool(params.MaxParticles),
		limiter: rate.NewLimiter(rate.Every(SpawnInterval), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Params returns the theme constants.
func (f *Field) Params() Params { return f.params }

// Len returns the number of live particles.
func (f *Field) Len() int { return f.pool.len() }

// Particles returns a copy of the live particles.
func (f *Field) Particles() []Particle { return f.pool.snapshot() }

// Pointer returns the pointer state.
func (f *Field) Pointer() Pointer { return f.pointer }

// Bounds returns the viewport size.
func (f *Field) Bounds() (width, height float64) { return f.width, f.height }

// Resize changes the viewport. Live particles keep their positions; those
// now off-screen simply expire.
func (f *Field) Resize(width, height float64) {
	f.width, f.height = width, height
}

// Move records a pointer position and, at most once per SpawnInterval,
// sheds a burst of particles along the segment just travelled. It returns
// the number of particles spawned.
func (f *Field) Move(x, y float64, now time.Time) int {
	dx := x - f.pointer.X
	dy := y - f.pointer.Y
	f.pointer.X, f.pointer.Y = x, y
	f.pointer.DX, f.pointer.DY = dx, dy

	if !f.limiter.AllowN(now, 1) {
		return 0
	}
	f.pointer.LastSpawn = now

	count := BurstSize(math.Hypot(dx, dy))
	spawned := 0
	for i := 0; i < count; i++ {
		if f.pool.full() {
			break
		}
		t := float64(i) / float64(count)
		f.pool.add(f.newParticle(x-dx*t, y-dy*t, dx, dy))
		spawned++
	}
	return spawned
}

// BurstSize is the number of particles one pointer event sheds at speed.
func BurstSize(speed float64) int {
	n := int(math.Floor(speed/SpeedPerParticle)) + MinBurst
	if n > MaxBurst {
		return MaxBurst
	}
	return n
}

func (f *Field) newParticle(x, y, mvx, mvy float64) Particle {
	life := MinLife + int(math.Floor(f.rng.Float64()*LifeSpread))
	return Particle{
		X:          x,
		Y:          y,
		VX:         mvx*VelocityCarry + (f.rng.Float64()-0.5)*JitterSpan,
		VY:         mvy*VelocityCarry + (f.rng.Float64()-0.5)*JitterSpan,
		Size:       InitialSize,
		TargetSize: f.rng.Float64()*f.params.SizeSpread + f.params.MinSize,
		Color:      f.params.Palette[f.pickColor()],
		Life:       life,
		MaxLife:    life,
	}
}

func (f *Field) pickColor() int {
	i := int(f.rng.Float64() * float64(len(f.params.Palette)))
	if i >= len(f.params.Palette) {
		i = len(f.params.Palette) - 1
	}
	return i
}

// Tick advances every particle one step, draws it, and retires the dead in
// the same pass. A nil surface runs the physics only.
func (f *Field) Tick(s Surface) {
	if s != nil {
		s.Clear()
	}
	for i := f.pool.len() - 1; i >= 0; i-- {
		p := f.pool.at(i)
		p.step()
		if s != nil {
			f.draw(s, p)
		}
		if p.Dead() {
			f.pool.remove(i)
		}
	}
}

func (f *Field) draw(s Surface, p *Particle) {
	alpha := p.Alpha(f.params.AlphaCeiling)
	s.FillRadial(p.X, p.Y, p.Size, p.Color, alpha)

	if f.rng.Float64() > 1-SparkChance && p.LifeFraction() > SparkLifeFraction {
		if f.params.SparkWhite {
			s.FillRect(p.X, p.Y, SparkSize, SparkSize, RGB{255, 255, 255}, alpha*SparkAlphaBoost)
		} else {
			s.FillRect(p.X, p.Y, SparkSize, SparkSize, p.Color, alpha)
		}
	}
}
