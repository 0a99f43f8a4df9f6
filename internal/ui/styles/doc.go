// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ictchat TUI.

# Color System (colors.go)

Both themes share the flag colors BrandGreen and BrandRed. Everything else
comes from a Palette:

	DarkPalette  - black page, light text
	LightPalette - near-white page, dark text

The page backgrounds match the particle field's background so panels and
the field meet without a seam.

# Theme (theme.go)

NewTheme(dark) builds every lipgloss style from a palette. ResolveDark
turns the configured name (dark, light, auto) into a choice; auto asks
termenv whether the terminal background is dark.

# Animations (animations.go)

Spinner frame sets for bubbles/spinner: ProcessingSpinner while a question
is in flight, ASCIISpinner for terminals without Unicode, LiveDot for the
header's "System Live" indicator.
*/
package styles
