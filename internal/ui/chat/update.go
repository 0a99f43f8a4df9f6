// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ictchat/internal/gateway"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/telemetry"
	"github.com/jeranaias/ictchat/internal/ui/components"
)

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ResponseMsg:
		return m.handleResponse(msg)

	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.SidebarTickMsg:
		cmd := m.sidebar.Update(msg)
		m.refresh(false)
		return m, cmd

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelMgr.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.inFlight {
			m.cancelMgr.cancel()
			return m, nil
		}
		return m, func() tea.Msg { return GoHomeMsg{} }

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.NewSession):
		return m.newSession()

	case key.Matches(msg, m.keys.DeleteSession):
		return m.deleteSession()

	case key.Matches(msg, m.keys.PrevSession):
		return m.switchSession(-1)

	case key.Matches(msg, m.keys.NextSession):
		return m.switchSession(1)

	case key.Matches(msg, m.keys.ToggleSidebar):
		cmd := m.sidebar.Toggle()
		return m, cmd

	case key.Matches(msg, m.keys.ToggleTheme):
		return m, func() tea.Msg { return ToggleThemeMsg{} }

	case key.Matches(msg, m.keys.ToggleRaw):
		m.showRaw = !m.showRaw
		m.refresh(!m.showRaw)
		if m.showRaw {
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastAnswer()

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.inFlight {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SENDING
// =============================================================================

// submit appends the user's question and starts the request. It is a no-op
// while another request is in flight or the input is blank.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	if m.currentID == "" {
		if err := m.Start(); err != nil {
			return m, m.toast(components.ToastKindError, "Could not create a discussion: "+err.Error())
		}
	}
	sess, ok := m.current()
	if !ok {
		return m, m.toast(components.ToastKindError, "Discussion not found")
	}

	messages := append(sess.Messages, model.NewUserMessage(query))
	if _, err := m.store.UpdateMessages(sess.ID, messages); err != nil {
		return m, m.toast(components.ToastKindError, "Could not save the discussion: "+err.Error())
	}

	m.input.Reset()
	m.input.Blur()
	m.inFlight = true
	m.errLine = ""
	m.showRaw = false
	m.seq++
	m.statusBar.Status = components.StatusThinking
	m.refresh(true)

	return m, tea.Batch(m.send(m.seq, sess.ID, query), m.spinner.Tick)
}

// send runs the request in a tea.Cmd goroutine.
func (m Model) send(seq int, sessionID, query string) tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancelMgr.set(cancel)

	client := m.client
	req := gateway.Request{Input: query, SessionID: sessionID, Config: m.config}
	return func() tea.Msg {
		defer cancel()
		reply, err := client.Send(ctx, req)
		return ResponseMsg{Seq: seq, SessionID: sessionID, Query: query, Reply: reply, Err: err}
	}
}

// handleResponse records the answer or the error and re-enables input.
func (m Model) handleResponse(msg ResponseMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.cancelMgr.cancel()
	m.inFlight = false
	m.statusBar.Status = components.StatusReady
	focus := m.input.Focus()

	if msg.Err != nil {
		if errors.Is(msg.Err, gateway.ErrCanceled) {
			m.refresh(true)
			return m, tea.Batch(focus, m.toast(components.ToastKindStatus, "Request canceled"))
		}
		var gwErr *gateway.GatewayError
		if errors.As(msg.Err, &gwErr) {
			log.Printf("chat: %s failed: %s", msg.SessionID, gwErr.Detail())
		}
		m.errLine = msg.Err.Error()
		m.statusBar.Status = components.StatusError
		m.refresh(true)
		return m, tea.Batch(focus, m.toast(components.ToastKindError, m.errLine))
	}

	reply := msg.Reply
	m.lastRaw = reply.Raw

	sess, err := m.store.Get(msg.SessionID)
	if err != nil {
		// Deleted while the request was running.
		m.refresh(true)
		return m, focus
	}
	messages := append(sess.Messages, model.NewAssistantMessage(reply.Text, reply.Sources))
	if _, err := m.store.UpdateMessages(sess.ID, messages); err != nil {
		m.refresh(true)
		return m, tea.Batch(focus, m.toast(components.ToastKindError, "Could not save the answer: "+err.Error()))
	}

	if m.telemetry.Enabled() {
		m.telemetry.LogAsync(telemetry.Event{
			Name:     telemetry.EventChatExchange,
			ChatID:   sess.ID,
			Query:    msg.Query,
			Response: reply.Text,
			Metadata: map[string]any{
				"audience":    m.config.Audience,
				"topic":       m.config.Topic,
				"language":    m.config.Language,
				"duration_ms": reply.Duration.Milliseconds(),
				"matched":     reply.Matched,
			},
		})
	}

	m.refresh(true)
	return m, focus
}

// =============================================================================
// SESSION ACTIONS
// =============================================================================

func (m Model) newSession() (tea.Model, tea.Cmd) {
	sess, err := m.store.Create()
	if err != nil {
		return m, m.toast(components.ToastKindError, "Could not create a discussion: "+err.Error())
	}
	m.Open(sess.ID)
	return m, nil
}

func (m Model) deleteSession() (tea.Model, tea.Cmd) {
	if m.currentID == "" {
		return m, nil
	}
	if m.inFlight {
		m.cancelMgr.cancel()
	}
	next, err := m.store.Delete(m.currentID, m.currentID)
	if err != nil {
		return m, m.toast(components.ToastKindError, "Could not delete the discussion: "+err.Error())
	}
	if next == "" {
		m.currentID = ""
		m.refresh(true)
		return m, tea.Batch(
			m.toast(components.ToastKindStatus, "Discussion deleted"),
			func() tea.Msg { return GoHomeMsg{} },
		)
	}
	m.Open(next)
	return m, m.toast(components.ToastKindStatus, "Discussion deleted")
}

func (m Model) switchSession(delta int) (tea.Model, tea.Cmd) {
	id, moved := m.store.Neighbor(m.currentID, delta)
	if !moved {
		return m, nil
	}
	m.Open(id)
	return m, nil
}

// copyLastAnswer copies the newest assistant answer of the open session.
func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	sess, ok := m.current()
	if !ok {
		return m, m.toast(components.ToastKindWarning, "No answer to copy")
	}
	msg, ok := sess.LastAssistant()
	if !ok || msg.Content == "" {
		return m, m.toast(components.ToastKindWarning, "No answer to copy")
	}
	if err := writeClipboard(msg.Content); err != nil {
		log.Printf("clipboard: %v", err)
		return m, m.toast(components.ToastKindError, "Clipboard unavailable")
	}
	return m, m.toast(components.ToastKindSuccess, "Copied answer ("+strconv.Itoa(len([]rune(msg.Content)))+" chars)")
}

// toast shows a notification and starts the tick loop when it was idle.
func (m Model) toast(kind components.ToastKind, text string) tea.Cmd {
	idle := m.toasts.Len() == 0
	m.toasts.Add(kind, text)
	if idle {
		return components.ToastTickCmd()
	}
	return nil
}
