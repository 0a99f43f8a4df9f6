// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import "math"

// =============================================================================
// PHYSICS CONSTANTS
// =============================================================================

const (
	// Friction multiplies velocity every tick.
	Friction = 0.96

	// GrowthRate is the share of the remaining size gap closed every tick.
	GrowthRate = 0.035

	// InitialSize is the radius of a newborn particle.
	InitialSize = 1.5

	// MinSize retires a particle that has shrunk below it.
	MinSize = 0.2

	// Lifetime is MinLife + floor(rand*LifeSpread) ticks.
	MinLife    = 50
	LifeSpread = 90

	// VelocityCarry is the share of the pointer delta a particle inherits.
	VelocityCarry = 0.15

	// JitterSpan is the width of the uniform velocity jitter, centered on zero.
	JitterSpan = 1.8

	// Sparks appear with SparkChance per drawn tick while the particle is in
	// the first (1-SparkLifeFraction) of its life.
	SparkChance       = 0.015
	SparkLifeFraction = 0.4
	SparkSize         = 1.5
	SparkAlphaBoost   = 1.5
)

// =============================================================================
// PARTICLE
// =============================================================================

// Particle is one glowing point. Coordinates are virtual pixels.
type Particle struct {
	X, Y       float64
	VX, VY     float64
	Size       float64
	TargetSize float64
	Color      RGB
	Life       int
	MaxLife    int
}

// step advances the particle by one tick.
func (p *Particle) step() {
	p.X += p.VX
	p.Y += p.VY
	p.VX *= Friction
	p.VY *= Friction
	p.Size += (p.TargetSize - p.Size) * GrowthRate
	p.Life--
}

// Dead reports whether the particle must be retired.
func (p *Particle) Dead() bool {
	return p.Life <= 0 || p.Size < MinSize
}

// LifeFraction is 1 at birth and 0 at death.
func (p *Particle) LifeFraction() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// Alpha peaks at mid-life and is zero at birth and death.
func (p *Particle) Alpha(ceiling float64) float64 {
	a := math.Sin(p.LifeFraction()*math.Pi) * ceiling
	if a < 0 {
		return 0
	}
	return a
}

// =============================================================================
// POOL
// =============================================================================

// PERFORMANCE: Fixed-capacity pool. Retiring swaps the last live particle
// into the hole, so a frame never allocates.
type pool struct {
	items []Particle
	n     int
}

func newPool(capacity int) pool {
	return pool{items: make([]Particle, capacity)}
}

func (p *pool) len() int { return p.n }

func (p *pool) full() bool { return p.n >= len(p.items) }

// add stores a particle; it reports false when the pool is full.
func (p *pool) add(part Particle) bool {
	if p.full() {
		return false
	}
	p.items[p.n] = part
	p.n++
	return true
}

func (p *pool) at(i int) *Particle { return &p.items[i] }

// remove retires index i. Callers iterating downward can keep going at i-1.
func (p *pool) remove(i int) {
	last := p.n - 1
	p.items[i] = p.items[last]
	p.items[last] = Particle{}
	p.n--
}

func (p *pool) snapshot() []Particle {
	out := make([]Particle, p.n)
	copy(out, p.items[:p.n])
	return out
}
