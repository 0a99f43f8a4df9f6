// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header strings.
const (
	BrandName = "ICT Bangladesh AI"
	BrandTag  = "Next-Gen AI"
	LiveLabel = "System Live"
)

// Header is the one-line title bar with the brand, the live indicator and
// the current theme.
type Header struct {
	Width int
	frame int
	theme *styles.Theme
}

// NewHeader creates a header for theme.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetTheme swaps the theme after a toggle.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Pulse advances the live dot animation.
func (h *Header) Pulse() {
	h.frame++
}

// Height is the number of lines View returns.
func (h *Header) Height() int {
	return 2
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - t.Header.GetHorizontalFrameSize()

	left := t.HeaderBrand.Render(BrandName) + "  " + t.HeaderTag.Render(BrandTag)

	dots := styles.LiveDot.Frames
	dot := dots[h.frame%len(dots)]
	right := t.HeaderLive.Render(dot+" "+LiveLabel) + t.Muted.Render("  |  ") + t.HeaderMode.Render(strings.ToUpper(t.Name()))

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminals drop the right-hand block first.
		right = ""
		gap = inner - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}

	line := left + strings.Repeat(" ", gap) + right
	return t.Header.Width(inner + t.Header.GetHorizontalPadding()).Render(line)
}
