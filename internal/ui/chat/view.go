// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/ui/components"
	"github.com/jeranaias/ictchat/internal/util"
)

// View renders the chat screen in exactly width x height cells.
func (m Model) View() string {
	t := m.theme
	pw := m.panelWidth()

	// Bottom of the panel: toasts, error line, input.
	var bottom []string
	if stack := components.RenderToastStack(t, m.toasts.Toasts(), pw); stack != "" {
		bottom = append(bottom, lipgloss.PlaceHorizontal(pw, lipgloss.Right, stack))
	}
	if m.errLine != "" {
		bottom = append(bottom, t.ErrorLine.Render(util.TruncateWidth("✗ "+m.errLine, pw)))
	}
	bottom = append(bottom, m.renderInput(pw))
	tail := strings.Join(bottom, "\n")

	vp := m.viewport
	vp.Height = m.height - 1 - lipgloss.Height(tail)
	if vp.Height < 1 {
		vp.Height = 1
	}
	panel := lipgloss.JoinVertical(lipgloss.Left, vp.View(), tail)
	panel = lipgloss.NewStyle().Width(pw).Render(panel)

	body := panel
	if side := m.sidebar.View(m.store.List(), m.currentID, m.height-1); side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, panel)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())
	return lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(out)
}

// renderInput draws the input box, or the spinner while a request runs.
func (m Model) renderInput(width int) string {
	t := m.theme
	inner := width - t.InputContainer.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	content := m.input.View()
	if m.inFlight {
		content = m.spinner.View() + " " + t.Thinking.Render(ProcessingLabel)
	}
	return t.InputContainer.Width(inner + t.InputContainer.GetHorizontalPadding()).Render(content)
}

// renderContent is the viewport body: the raw payload or the conversation.
func (m Model) renderContent(width int) string {
	t := m.theme
	if m.showRaw {
		if len(m.lastRaw) == 0 {
			return t.Muted.Render("No response received yet.")
		}
		inner := width - t.RawBox.GetHorizontalFrameSize()
		return t.RawBox.Width(inner + t.RawBox.GetHorizontalPadding()).
			Render(components.HighlightJSON(m.lastRaw, t.Dark))
	}

	sess, ok := m.current()
	if !ok {
		return components.RenderEmptyState(t, width)
	}
	var md *components.MarkdownRenderer
	if m.useMD {
		md = m.markdown
	}
	content := components.RenderConversation(t, md, sess.Messages, width)
	return lipgloss.NewStyle().PaddingLeft(1).Render(content)
}
