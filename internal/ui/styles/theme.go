// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// Unlike the terminal's own background, the theme is chosen by the user and
// can be toggled at runtime; each toggle builds a fresh Theme.
type Theme struct {
	Dark    bool
	Palette Palette

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderTag   lipgloss.Style
	HeaderLive  lipgloss.Style
	HeaderMode  lipgloss.Style

	// ==========================================================================
	// LANDING (HERO) STYLES
	// ==========================================================================

	HeroTitle      lipgloss.Style
	HeroAccent     lipgloss.Style
	HeroTagline    lipgloss.Style
	HeroFooter     lipgloss.Style
	SelectorLabel  lipgloss.Style
	SelectorValue  lipgloss.Style
	SelectorActive lipgloss.Style
	Button         lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionDate         lipgloss.Style

	// ==========================================================================
	// CHAT PANEL STYLES
	// ==========================================================================

	Panel           lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style
	SourcesTitle    lipgloss.Style
	SourceLink      lipgloss.Style
	EmptyTitle      lipgloss.Style
	EmptySubtitle   lipgloss.Style
	RawBox          lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	Thinking         lipgloss.Style
	ErrorLine        lipgloss.Style
	Help             lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	Muted lipgloss.Style
	Bold  lipgloss.Style
}

// NewTheme creates the dark or light theme.
func NewTheme(dark bool) *Theme {
	t := &Theme{Dark: dark, Palette: PaletteFor(dark)}
	t.initStyles()
	return t
}

// ResolveDark maps a configured theme name to dark or light. "auto" follows
// the terminal background.
func ResolveDark(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return false
	case "auto":
		return termenv.HasDarkBackground()
	default:
		return true
	}
}

// Name returns "dark" or "light".
func (t *Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	p := t.Palette

	// Header
	t.Header = lipgloss.NewStyle().
		Foreground(p.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.BorderDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	t.HeaderTag = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	t.HeaderLive = lipgloss.NewStyle().
		Foreground(p.Success)

	t.HeaderMode = lipgloss.NewStyle().
		Foreground(p.TextDim)

	// Landing
	t.HeroTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	t.HeroAccent = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	t.HeroTagline = lipgloss.NewStyle().
		Italic(true).
		Foreground(p.TextDim)

	t.HeroFooter = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.SelectorLabel = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Bold(true)

	t.SelectorValue = lipgloss.NewStyle().
		Foreground(p.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderDim).
		Padding(0, 1)

	t.SelectorActive = t.SelectorValue.
		BorderForeground(p.Primary).
		Foreground(p.Primary).
		Bold(true)

	t.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.Primary).
		Padding(0, 3)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.BorderDim).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextMuted)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(p.TextDim).
		PaddingLeft(1)

	t.SessionItemSelected = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(p.Primary)

	t.SessionDate = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Chat panel
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		Padding(0, 2)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(p.AssistantBubbleFg).
		Background(p.AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderDim).
		Padding(0, 1)

	t.RoleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.SourcesTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextMuted)

	t.SourceLink = lipgloss.NewStyle().
		Foreground(p.Info).
		Underline(true)

	t.EmptyTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextDim)

	t.EmptySubtitle = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.RawBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Info).
		Padding(0, 1)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderDim).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.Thinking = lipgloss.NewStyle().
		Foreground(p.Primary).
		Italic(true)

	t.ErrorLine = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true)

	t.Help = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Toasts
	toast := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)
	t.ToastInfo = toast.BorderForeground(p.Info).Foreground(p.Info)
	t.ToastSuccess = toast.BorderForeground(p.Success).Foreground(p.Success)
	t.ToastWarning = toast.BorderForeground(p.Warning).Foreground(p.Warning)
	t.ToastError = toast.BorderForeground(p.Danger).Foreground(p.Danger)

	t.Muted = lipgloss.NewStyle().Foreground(p.TextMuted)
	t.Bold = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
}
