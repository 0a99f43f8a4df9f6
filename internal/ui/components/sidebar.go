// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/ui/styles"
	"github.com/jeranaias/ictchat/internal/util"
)

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

const (
	// SidebarWidth is the fully open width in cells.
	SidebarWidth = 30

	// sidebarFPS drives the open/close animation.
	sidebarFPS = 60

	// Spring tuning: quick with a slight overshoot.
	sidebarFrequency = 7.0
	sidebarDamping   = 0.8
)

// SidebarTickMsg advances the sidebar animation. ID ties it to one sidebar.
type SidebarTickMsg struct {
	ID int
}

var sidebarSeq int

// Sidebar lists sessions. Opening and closing animate the width with a
// damped spring.
type Sidebar struct {
	id     int
	open   bool
	pos    float64
	vel    float64
	spring harmonica.Spring
	moving bool
	theme  *styles.Theme
}

// NewSidebar creates a sidebar, already settled open or closed.
func NewSidebar(theme *styles.Theme, open bool) *Sidebar {
	sidebarSeq++
	s := &Sidebar{
		id:     sidebarSeq,
		open:   open,
		spring: harmonica.NewSpring(harmonica.FPS(sidebarFPS), sidebarFrequency, sidebarDamping),
		theme:  theme,
	}
	if open {
		s.pos = SidebarWidth
	}
	return s
}

// SetTheme swaps the theme after a toggle.
func (s *Sidebar) SetTheme(theme *styles.Theme) { s.theme = theme }

// Open reports the target state.
func (s *Sidebar) Open() bool { return s.open }

// Animating reports whether the spring is still moving.
func (s *Sidebar) Animating() bool { return s.moving }

// Width returns the current animated width in cells.
func (s *Sidebar) Width() int {
	w := int(math.Round(s.pos))
	if w < 0 {
		return 0
	}
	if w > SidebarWidth+2 {
		return SidebarWidth + 2
	}
	return w
}

// Toggle flips the target state and starts the animation.
func (s *Sidebar) Toggle() tea.Cmd {
	s.open = !s.open
	if s.moving {
		return nil
	}
	s.moving = true
	return s.tick()
}

func (s *Sidebar) target() float64 {
	if s.open {
		return SidebarWidth
	}
	return 0
}

func (s *Sidebar) tick() tea.Cmd {
	id := s.id
	return tea.Tick(time.Second/sidebarFPS, func(time.Time) tea.Msg {
		return SidebarTickMsg{ID: id}
	})
}

// Update steps the spring. It returns the next tick until the sidebar
// settles.
func (s *Sidebar) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(SidebarTickMsg)
	if !ok || tick.ID != s.id || !s.moving {
		return nil
	}

	target := s.target()
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	if math.Abs(s.pos-target) < 0.5 && math.Abs(s.vel) < 0.5 {
		s.pos, s.vel = target, 0
		s.moving = false
		return nil
	}
	return s.tick()
}

// View renders the session list at the current animated width. current is
// highlighted.
func (s *Sidebar) View(sessions []model.Session, current string, height int) string {
	width := s.Width()
	if width == 0 || height <= 0 {
		return ""
	}
	t := s.theme
	inner := width - t.Sidebar.GetHorizontalFrameSize()
	if inner < 1 {
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}

	lines := []string{
		t.SidebarTitle.Render(util.TruncateWidth("HISTORY", inner)),
		t.Muted.Render(util.TruncateWidth("ctrl+n new  ctrl+d delete", inner)),
		"",
	}
	if len(sessions) == 0 {
		lines = append(lines, t.Muted.Render(util.TruncateWidth("No discussions yet", inner)))
	}

	// Two lines per entry; keep the current session visible.
	perPage := (height - len(lines)) / 2
	start := 0
	if perPage > 0 {
		for i, sess := range sessions {
			if sess.ID == current && i >= perPage {
				start = i - perPage + 1
			}
		}
	}
	for i := start; i < len(sessions) && (perPage <= 0 || i < start+perPage); i++ {
		sess := sessions[i]
		style := t.SessionItem
		if sess.ID == current {
			style = t.SessionItemSelected
		}
		textWidth := inner - style.GetHorizontalFrameSize()
		if textWidth < 1 {
			textWidth = 1
		}
		lines = append(lines,
			style.Render(util.TruncateWidth(sess.DisplayTitle(), textWidth)),
			style.Render(t.SessionDate.Render(util.TruncateWidth(sess.LastUpdated.Local().Format("Jan 2"), textWidth))),
		)
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	body := lipgloss.NewStyle().Width(inner).Height(height).Render(strings.Join(lines, "\n"))
	return t.Sidebar.Render(body)
}
