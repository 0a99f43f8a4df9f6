// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Flag colors of Bangladesh, used by both themes.
var (
	BrandGreen = lipgloss.Color("#00A651")
	BrandRed   = lipgloss.Color("#ED1C24")
)

// =============================================================================
// PALETTES
// =============================================================================

// Palette is the set of colors one theme draws with.
type Palette struct {
	Background lipgloss.Color // page background behind the particle field
	Surface    lipgloss.Color // panels
	SurfaceDim lipgloss.Color // headers, input bar
	Border     lipgloss.Color
	BorderDim  lipgloss.Color

	Text      lipgloss.Color
	TextDim   lipgloss.Color
	TextMuted lipgloss.Color
	Inverse   lipgloss.Color

	Primary lipgloss.Color // green accent
	Accent  lipgloss.Color // red accent
	Info    lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Success lipgloss.Color

	UserBubbleBg      lipgloss.Color
	UserBubbleFg      lipgloss.Color
	AssistantBubbleBg lipgloss.Color
	AssistantBubbleFg lipgloss.Color
}

// DarkPalette pairs with the black particle background.
var DarkPalette = Palette{
	Background: lipgloss.Color("#000000"),
	Surface:    lipgloss.Color("#0B0F0D"),
	SurfaceDim: lipgloss.Color("#111614"),
	Border:     lipgloss.Color("#1F3A2C"),
	BorderDim:  lipgloss.Color("#1A1F1C"),

	Text:      lipgloss.Color("#F4F4F5"),
	TextDim:   lipgloss.Color("#A1A1AA"),
	TextMuted: lipgloss.Color("#52525B"),
	Inverse:   lipgloss.Color("#000000"),

	Primary: BrandGreen,
	Accent:  BrandRed,
	Info:    lipgloss.Color("#00FFB4"),
	Warning: lipgloss.Color("#FBBF24"),
	Danger:  lipgloss.Color("#F87171"),
	Success: lipgloss.Color("#34D399"),

	UserBubbleBg:      BrandGreen,
	UserBubbleFg:      lipgloss.Color("#FFFFFF"),
	AssistantBubbleBg: lipgloss.Color("#18181B"),
	AssistantBubbleFg: lipgloss.Color("#E4E4E7"),
}

// LightPalette pairs with the near-white particle background.
var LightPalette = Palette{
	Background: lipgloss.Color("#FAFAFA"),
	Surface:    lipgloss.Color("#FFFFFF"),
	SurfaceDim: lipgloss.Color("#F4F4F5"),
	Border:     lipgloss.Color("#BBE5CC"),
	BorderDim:  lipgloss.Color("#E4E4E7"),

	Text:      lipgloss.Color("#18181B"),
	TextDim:   lipgloss.Color("#52525B"),
	TextMuted: lipgloss.Color("#A1A1AA"),
	Inverse:   lipgloss.Color("#FFFFFF"),

	Primary: lipgloss.Color("#009646"),
	Accent:  lipgloss.Color("#D21423"),
	Info:    lipgloss.Color("#0064FF"),
	Warning: lipgloss.Color("#B45309"),
	Danger:  lipgloss.Color("#B91C1C"),
	Success: lipgloss.Color("#047857"),

	UserBubbleBg:      lipgloss.Color("#009646"),
	UserBubbleFg:      lipgloss.Color("#FFFFFF"),
	AssistantBubbleBg: lipgloss.Color("#F4F4F5"),
	AssistantBubbleFg: lipgloss.Color("#27272A"),
}

// PaletteFor returns the palette for a dark or light theme.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
