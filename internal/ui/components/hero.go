// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/ui/styles"
)

// =============================================================================
// LANDING HERO
// =============================================================================

// Landing copy.
const (
	HeroTitle   = "ICT Bangladesh"
	HeroAccent  = "AI"
	HeroTagline = "The Future of Digital Governance."
	HeroButton  = "Initiate Chat"
	HeroFooter  = "Smart Bangladesh 2026 Secured"
)

// Selector identifies one of the three landing selectors.
type Selector int

const (
	SelectAudience Selector = iota
	SelectTopic
	SelectLanguage
	selectorCount
)

// Label returns the selector's caption.
func (s Selector) Label() string {
	switch s {
	case SelectAudience:
		return "AUDIENCE"
	case SelectTopic:
		return "TOPIC"
	case SelectLanguage:
		return "LANGUAGE"
	default:
		return ""
	}
}

// Options returns the values the selector cycles through.
func (s Selector) Options() []string {
	switch s {
	case SelectAudience:
		return model.AudienceOptions
	case SelectTopic:
		return model.TopicOptions
	case SelectLanguage:
		return model.LanguageOptions
	default:
		return nil
	}
}

// Hero is the landing screen: brand, tagline, the three selectors and the
// call to action.
type Hero struct {
	Width  int
	Height int

	config model.ChatConfig
	focus  Selector
	theme  *styles.Theme
}

// NewHero creates the landing screen with cfg preselected.
func NewHero(theme *styles.Theme, cfg model.ChatConfig) *Hero {
	return &Hero{config: cfg.WithDefaults(), theme: theme, Width: 80, Height: 24}
}

// SetTheme swaps the theme after a toggle.
func (h *Hero) SetTheme(theme *styles.Theme) { h.theme = theme }

// SetSize updates the available area.
func (h *Hero) SetSize(width, height int) {
	h.Width, h.Height = width, height
}

// Config returns the current selections.
func (h *Hero) Config() model.ChatConfig { return h.config }

// SetConfig replaces the selections.
func (h *Hero) SetConfig(cfg model.ChatConfig) { h.config = cfg.WithDefaults() }

// Focus returns the focused selector.
func (h *Hero) Focus() Selector { return h.focus }

// MoveFocus moves the focus delta selectors, wrapping around.
func (h *Hero) MoveFocus(delta int) {
	n := int(selectorCount)
	h.focus = Selector(((int(h.focus)+delta)%n + n) % n)
}

// Cycle changes the focused selector's value by delta options.
func (h *Hero) Cycle(delta int) {
	opts := h.focus.Options()
	switch h.focus {
	case SelectAudience:
		h.config.Audience = model.CycleOption(opts, h.config.Audience, delta)
	case SelectTopic:
		h.config.Topic = model.CycleOption(opts, h.config.Topic, delta)
	case SelectLanguage:
		h.config.Language = model.CycleOption(opts, h.config.Language, delta)
	}
}

func (h *Hero) value(s Selector) string {
	switch s {
	case SelectAudience:
		return h.config.Audience
	case SelectTopic:
		return h.config.Topic
	default:
		return h.config.Language
	}
}

// View renders the landing screen centered in Width x Height.
func (h *Hero) View() string {
	return lipgloss.Place(h.Width, h.Height, lipgloss.Center, lipgloss.Center, h.Block())
}

// Block renders the landing content without surrounding whitespace, for
// drawing over the particle field. Offset returns where to place it.
func (h *Hero) Block() string {
	t := h.theme

	title := t.HeroTitle.Render(HeroTitle) + " " + t.HeroAccent.Render(HeroAccent)
	tagline := t.HeroTagline.Render(HeroTagline)

	selectors := make([]string, 0, selectorCount)
	for s := Selector(0); s < selectorCount; s++ {
		box := t.SelectorValue
		arrow := "  "
		if s == h.focus {
			box = t.SelectorActive
			arrow = "↕ "
		}
		cell := lipgloss.JoinVertical(lipgloss.Center,
			t.SelectorLabel.Render(s.Label()),
			box.Render(arrow+h.value(s)),
		)
		selectors = append(selectors, cell)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, interleave(selectors, "  ")...)
	if lipgloss.Width(row) > h.Width {
		row = lipgloss.JoinVertical(lipgloss.Center, selectors...)
	}

	button := t.Button.Render(HeroButton + "  ↵")
	help := t.Help.Render("←/→ select  ↑/↓ change  enter start  t theme  q quit")
	footer := t.HeroFooter.Render(strings.ToUpper(HeroFooter))

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		tagline,
		"",
		row,
		"",
		button,
		"",
		help,
		"",
		footer,
	)
}

// Offset returns the top-left cell that centers block in Width x Height.
func (h *Hero) Offset(block string) (x, y int) {
	x = (h.Width - lipgloss.Width(block)) / 2
	y = (h.Height - lipgloss.Height(block)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}
