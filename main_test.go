// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ictchat/internal/config"
	"github.com/jeranaias/ictchat/internal/fluid"
	"github.com/jeranaias/ictchat/internal/gateway"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/storage"
	"github.com/jeranaias/ictchat/internal/ui/chat"
	"github.com/jeranaias/ictchat/internal/ui/components"
)

type echoSender struct{}

func (echoSender) Send(_ context.Context, req gateway.Request) (*gateway.Reply, error) {
	return &gateway.Reply{Text: "echo: " + req.Input, Raw: []byte(`{"output":"echo"}`), Matched: true}, nil
}

func newTestApp(t *testing.T, profile termenv.Profile) (*App, *storage.SessionStore) {
	t.Helper()
	store, err := storage.Open(storage.NewMemoryBackend())
	require.NoError(t, err)
	cfg := config.Default()
	a := NewApp(cfg, Deps{Store: store, Client: echoSender{}, StorageName: "memory"}, profile)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, store
}

func press(a *App, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		a.Update(msg)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_StartsOnLanding(t *testing.T) {
	a, _ := newTestApp(t, termenv.Ascii)

	assert.Equal(t, ScreenLanding, a.Screen())
	view := a.View()
	assert.Contains(t, view, components.BrandName)
	assert.Contains(t, view, components.HeroTagline)
	assert.Contains(t, view, components.HeroButton)
	assert.Equal(t, 40, len(strings.Split(view, "\n")))
}

func TestApp_ViewBeforeSize(t *testing.T) {
	store, err := storage.Open(storage.NewMemoryBackend())
	require.NoError(t, err)
	a := NewApp(config.Default(), Deps{Store: store, Client: echoSender{}}, termenv.Ascii)
	assert.Equal(t, "Initializing...", a.View())
}

func TestApp_LandingSelectorsCarryIntoChat(t *testing.T) {
	a, store := newTestApp(t, termenv.Ascii)

	// audience -> topic, then cycle the topic forward once
	press(a, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, components.SelectTopic, a.Hero().Focus())
	want := a.Hero().Config()
	assert.Equal(t, model.TopicOptions[0], want.Topic)

	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenChat, a.Screen())
	assert.Equal(t, want, a.Chat().Config())
	assert.NotEmpty(t, a.Chat().CurrentID())
	assert.Equal(t, 1, store.Len())
}

// Returning from the landing keeps the open discussion even when a newer
// one exists; only the first entry picks the newest.
func TestApp_HomeAndBackKeepsOpenSessionOverNewest(t *testing.T) {
	a, store := newTestApp(t, termenv.Ascii)
	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	id := a.Chat().CurrentID()

	a.Update(chat.GoHomeMsg{})
	assert.Equal(t, ScreenLanding, a.Screen())

	time.Sleep(2 * time.Millisecond)
	newer, err := store.Create()
	require.NoError(t, err)
	first, _ := store.First()
	require.Equal(t, newer.ID, first.ID)

	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenChat, a.Screen())
	assert.Equal(t, id, a.Chat().CurrentID())
	assert.Equal(t, 2, store.Len())
}

func TestApp_EscFromIdleChatGoesHome(t *testing.T) {
	a, _ := newTestApp(t, termenv.Ascii)
	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Equal(t, ScreenLanding, a.Screen())
}

func TestApp_ReopensNewestSession(t *testing.T) {
	store, err := storage.Open(storage.NewMemoryBackend())
	require.NoError(t, err)
	_, err = store.Create()
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	newest, err := store.Create()
	require.NoError(t, err)

	a := NewApp(config.Default(), Deps{Store: store, Client: echoSender{}}, termenv.Ascii)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	first, ok := store.First()
	require.True(t, ok)
	assert.Equal(t, newest.ID, first.ID)
	assert.Equal(t, newest.ID, a.Chat().CurrentID())
}

func TestApp_ThemeToggleRebuildsLayer(t *testing.T) {
	a, _ := newTestApp(t, termenv.TrueColor)
	old := a.Layer()
	require.True(t, old.Active())
	assert.True(t, a.Theme().Dark)
	assert.Equal(t, fluid.ThemeDark, old.Theme())

	_, cmd := a.Update(runes("t"))
	assert.NotNil(t, cmd)
	assert.False(t, a.Theme().Dark)
	assert.False(t, old.Active())
	assert.NotEqual(t, old.ID(), a.Layer().ID())
	assert.Equal(t, fluid.ThemeLight, a.Layer().Theme())
	assert.True(t, a.Layer().Active())

	// A frame addressed to the old layer is ignored.
	_, cmd = a.Update(fluid.FrameMsg{LayerID: old.ID(), Time: time.Now()})
	assert.Nil(t, cmd)

	a.Update(chat.ToggleThemeMsg{})
	assert.True(t, a.Theme().Dark)
}

func TestApp_ParticlesDisabled(t *testing.T) {
	store, err := storage.Open(storage.NewMemoryBackend())
	require.NoError(t, err)
	cfg := config.Default()
	cfg.UI.Particles = false
	a := NewApp(cfg, Deps{Store: store, Client: echoSender{}}, termenv.TrueColor)
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, a.Layer().Active())
	assert.Contains(t, a.View(), components.HeroTitle)
}

func TestApp_LayerSizedBelowHeader(t *testing.T) {
	a, _ := newTestApp(t, termenv.TrueColor)
	cols, rows := a.Layer().Field().Bounds()
	assert.InDelta(t, 120*fluid.CellWidth, cols, 0.001)
	assert.InDelta(t, float64(40-a.header.Height())*fluid.CellHeight, rows, 0.001)
}

func TestApp_ChatRoundTrip(t *testing.T) {
	a, store := newTestApp(t, termenv.Ascii)
	press(a, tea.KeyMsg{Type: tea.KeyEnter}, runes("hello"))

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, a.Chat().InFlight())

	var resp chat.ResponseMsg
	found := false
	for _, c := range cmd().(tea.BatchMsg) {
		if c == nil {
			continue
		}
		if r, ok := c().(chat.ResponseMsg); ok {
			resp, found = r, true
		}
	}
	require.True(t, found)

	// Responses reach the chat even after going home.
	a.Update(chat.GoHomeMsg{})
	a.Update(resp)
	assert.False(t, a.Chat().InFlight())

	sess, err := store.Get(a.Chat().CurrentID())
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "echo: hello", sess.Messages[1].Content)
}

func TestApp_ConfigReload(t *testing.T) {
	a, _ := newTestApp(t, termenv.Ascii)

	cfg := config.Default()
	cfg.UI.Theme = config.ThemeLight
	cfg.Chat.Language = "Bengali"
	_, cmd := a.Update(ConfigChangedMsg{Config: cfg})
	assert.NotNil(t, cmd)
	assert.False(t, a.Theme().Dark)
	assert.Equal(t, "Bengali", a.Hero().Config().Language)
	require.Equal(t, 1, a.Chat().Toasts().Len())
	assert.Equal(t, components.ToastKindSuccess, a.Chat().Toasts().Toasts()[0].Kind)

	_, cmd = a.Update(ConfigChangedMsg{Err: errors.New("bad toml")})
	assert.Nil(t, cmd, "ticker already running")
	toasts := a.Chat().Toasts().Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, components.ToastKindWarning, toasts[0].Kind)
	assert.Contains(t, toasts[0].Message, "bad toml")
	assert.False(t, a.Theme().Dark)
}

func TestApp_ToggledThemeSurvivesReload(t *testing.T) {
	a, _ := newTestApp(t, termenv.Ascii)
	require.True(t, a.Theme().Dark)

	a.Update(runes("t"))
	require.False(t, a.Theme().Dark)
	assert.Equal(t, config.ThemeLight, a.cfg.UI.Theme)

	// Unrelated edit: the file still says dark, the toggle stays.
	cfg := config.Default()
	cfg.UI.FPS = 12
	a.Update(ConfigChangedMsg{Config: cfg})
	assert.False(t, a.Theme().Dark)
	assert.Equal(t, 12, a.cfg.UI.FPS)
	assert.Equal(t, config.ThemeLight, a.cfg.UI.Theme)
	assert.Equal(t, config.ThemeDark, cfg.UI.Theme, "reloaded config is not mutated")

	// Editing ui.theme in the file wins over the toggle.
	cfg = config.Default()
	cfg.UI.Theme = config.ThemeLight
	a.Update(ConfigChangedMsg{Config: cfg})
	assert.False(t, a.Theme().Dark)

	cfg = config.Default()
	a.Update(ConfigChangedMsg{Config: cfg})
	assert.True(t, a.Theme().Dark)
}

func TestApp_QuitFromLanding(t *testing.T) {
	a, _ := newTestApp(t, termenv.Ascii)
	_, cmd := a.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ChatPanelCentered(t *testing.T) {
	store, err := storage.Open(storage.NewMemoryBackend())
	require.NoError(t, err)
	a := NewApp(config.Default(), Deps{Store: store, Client: echoSender{}}, termenv.Ascii)
	a.Update(tea.WindowSizeMsg{Width: 200, Height: 30})
	assert.Equal(t, maxChatWidth, a.chatWidth())
	assert.Equal(t, 30, a.chatOffset())

	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, a.View(), "ICT Bangladesh")
}
