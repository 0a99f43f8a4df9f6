// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - bottom line of the chat screen
// =============================================================================

// Status represents the current request status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a glyph for the status.
// ACCESSIBILITY: distinct shapes alongside colors.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return "●"
	case StatusThinking:
		return "○"
	case StatusError:
		return "✗"
	default:
		return "?"
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// ChatShortcuts are the hints shown on the chat screen.
var ChatShortcuts = []Shortcut{
	{"enter", "send"},
	{"esc", "cancel/home"},
	{"^n", "new"},
	{"^b", "history"},
	{"^t", "theme"},
	{"^r", "raw"},
	{"^y", "copy"},
	{"^c", "quit"},
}

// StatusBar renders status, session count and storage backend, followed by
// as many shortcuts as fit.
type StatusBar struct {
	Status   Status
	Sessions int
	Storage  string
	Width    int
	theme    *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Status: StatusReady, Width: 80, theme: theme}
}

// SetTheme swaps the theme.
func (s *StatusBar) SetTheme(theme *styles.Theme) { s.theme = theme }

// View renders the bar.
func (s *StatusBar) View() string {
	t := s.theme
	p := t.Palette

	statusStyle := lipgloss.NewStyle().Foreground(p.Success)
	switch s.Status {
	case StatusThinking:
		statusStyle = lipgloss.NewStyle().Foreground(p.Warning)
	case StatusError:
		statusStyle = lipgloss.NewStyle().Foreground(p.Danger)
	}

	left := statusStyle.Render(s.Status.Icon() + " " + s.Status.String())
	if s.Width >= 60 {
		info := strconv.Itoa(s.Sessions) + " session"
		if s.Sessions != 1 {
			info += "s"
		}
		if s.Storage != "" {
			info += " · " + s.Storage
		}
		left += t.Muted.Render("  " + info)
	}

	room := s.Width - lipgloss.Width(left) - 2
	right := s.renderShortcuts(room)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().MaxWidth(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts renders as many hints as fit in room cells.
func (s *StatusBar) renderShortcuts(room int) string {
	keyStyle := lipgloss.NewStyle().Foreground(s.theme.Palette.Primary).Bold(true)

	var parts []string
	used := 0
	for _, sc := range ChatShortcuts {
		part := keyStyle.Render(sc.Key) + " " + s.theme.Help.Render(sc.Desc)
		w := lipgloss.Width(part)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > room {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}
