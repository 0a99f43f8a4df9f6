// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/ui/styles"
	"github.com/jeranaias/ictchat/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// Chat panel copy.
const (
	SourcesTitle  = "Institutional Sources"
	EmptyTitle    = "Ready to assist"
	EmptySubtitle = "ICT Bangladesh AI Instance Connected"
)

// MessageBubble renders one message. Assistant answers are Markdown and go
// through glamour when Markdown is set.
type MessageBubble struct {
	Message  model.Message
	Width    int
	Markdown bool
	theme    *styles.Theme
	md       *MarkdownRenderer
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme, md *MarkdownRenderer) *MessageBubble {
	return &MessageBubble{
		Message:  msg,
		Width:    80,
		Markdown: md != nil,
		theme:    theme,
		md:       md,
	}
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUserBubble()
	}
	return b.renderAssistantBubble()
}

func (b *MessageBubble) header() string {
	t := b.theme
	return t.RoleLabel.Render(b.Message.Role.DisplayName()) + " " +
		t.Timestamp.Render(b.Message.Timestamp.Local().Format("15:04"))
}

// ==========================================================================
// USER BUBBLE - right-aligned, brand green
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	t := b.theme
	content := strings.TrimSpace(b.Message.Content)
	if content == "" {
		content = "..."
	}

	maxContent := b.Width*3/4 - t.UserBubble.GetHorizontalFrameSize()
	if maxContent < 10 {
		maxContent = 10
	}
	wrapped := lipgloss.NewStyle().Width(maxContent).Render(content)
	if w := maxLineWidth(content); w < maxContent {
		wrapped = lipgloss.NewStyle().Width(w).Render(content)
	}

	bubble := t.UserBubble.Render(wrapped)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right,
		lipgloss.JoinVertical(lipgloss.Right, b.header(), bubble))
}

// ==========================================================================
// ASSISTANT BUBBLE - left-aligned, with sources
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	t := b.theme
	inner := b.Width - 4 - t.AssistantBubble.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	var body string
	if b.Markdown && b.md != nil {
		if out, err := b.md.Render(b.Message.Content, inner); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	if body == "" {
		body = lipgloss.NewStyle().Width(inner).Render(strings.TrimSpace(b.Message.Content))
	}

	if b.Message.HasSources() {
		body += "\n\n" + RenderSources(t, b.Message.Sources, inner)
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.header(), t.AssistantBubble.Render(body))
}

// RenderSources renders the citation list.
func RenderSources(t *styles.Theme, sources []model.Source, width int) string {
	lines := []string{t.SourcesTitle.Render(strings.ToUpper(SourcesTitle))}
	for _, src := range sources {
		label := util.TruncateWidth(src.Label(), width-2)
		line := "↗ " + t.SourceLink.Render(label)
		if src.URI != "" && src.Title != "" {
			line += "\n  " + t.Muted.Render(util.TruncateWidth(src.URI, width-2))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// CONVERSATION
// =============================================================================

// RenderConversation renders every message separated by a blank line, or the
// empty state when there are none.
func RenderConversation(t *styles.Theme, md *MarkdownRenderer, messages []model.Message, width int) string {
	if len(messages) == 0 {
		return RenderEmptyState(t, width)
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		bubble := NewMessageBubble(msg, t, md)
		bubble.Width = width
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}

// RenderEmptyState is shown for a session without messages.
func RenderEmptyState(t *styles.Theme, width int) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		"",
		t.EmptyTitle.Render(strings.ToUpper(EmptyTitle)),
		t.EmptySubtitle.Render(EmptySubtitle),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

// =============================================================================
// MARKDOWN
// =============================================================================

// MarkdownRenderer caches one glamour renderer per wrap width.
type MarkdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer using glamour's dark or light style.
func NewMarkdownRenderer(dark bool) *MarkdownRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	return &MarkdownRenderer{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render renders markdown wrapped to width.
func (m *MarkdownRenderer) Render(markdown string, width int) (string, error) {
	r, ok := m.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		m.renderers[width] = r
	}
	return r.Render(markdown)
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
