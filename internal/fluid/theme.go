// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fluid

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme selects the palette, particle cap and blend mode.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// String returns "dark" or "light".
func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// ParseTheme maps "light" to ThemeLight and anything else to ThemeDark.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), "light") {
		return ThemeLight
	}
	return ThemeDark
}

// Blend is how a particle combines with what is already on the surface.
type Blend int

const (
	// BlendScreen lightens: dst + a*src*(1-dst). Glows add up on dark backgrounds.
	BlendScreen Blend = iota
	// BlendSourceOver paints: a*src + (1-a)*dst.
	BlendSourceOver
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Colorful converts to the canvas sample type.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Params are the per-theme constants. They are fixed for a field's lifetime.
type Params struct {
	Theme        Theme
	Palette      [4]RGB
	MaxParticles int

	// Target size is MinSize + rand*SizeSpread.
	MinSize    float64
	SizeSpread float64

	// AlphaCeiling scales the sine fade curve.
	AlphaCeiling float64
	Blend        Blend
	Background   RGB

	// SparkWhite draws sparks white at 1.5x alpha instead of in the particle color.
	SparkWhite bool
}

var (
	darkParams = Params{
		Theme: ThemeDark,
		Palette: [4]RGB{
			{0, 166, 81},    // ICT green
			{237, 28, 36},   // BD red
			{255, 255, 255}, // data white
			{0, 255, 180},   // tech teal
		},
		MaxParticles: 1200,
		MinSize:      6,
		SizeSpread:   28,
		AlphaCeiling: 0.25,
		Blend:        BlendScreen,
		Background:   RGB{0, 0, 0},
		SparkWhite:   true,
	}

	lightParams = Params{
		Theme: ThemeLight,
		Palette: [4]RGB{
			{0, 150, 70},    // crisp green
			{210, 20, 35},   // bold red
			{0, 100, 255},   // azure
			{100, 100, 110}, // slate
		},
		MaxParticles: 900,
		MinSize:      5,
		SizeSpread:   22,
		AlphaCeiling: 0.35,
		Blend:        BlendSourceOver,
		Background:   RGB{250, 250, 250},
		SparkWhite:   false,
	}
)

// ParamsFor returns the constants for a theme.
func ParamsFor(t Theme) Params {
	if t == ThemeLight {
		return lightParams
	}
	return darkParams
}
