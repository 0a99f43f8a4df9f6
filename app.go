// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/jeranaias/ictchat/internal/config"
	"github.com/jeranaias/ictchat/internal/fluid"
	"github.com/jeranaias/ictchat/internal/storage"
	"github.com/jeranaias/ictchat/internal/telemetry"
	"github.com/jeranaias/ictchat/internal/ui/chat"
	"github.com/jeranaias/ictchat/internal/ui/components"
	"github.com/jeranaias/ictchat/internal/ui/styles"
)

// maxChatWidth caps the chat panel so the particle field shows at the sides
// of wide terminals.
const maxChatWidth = 140

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Screen is the top-level view.
type Screen int

const (
	ScreenLanding Screen = iota // Hero with the audience/topic/language selectors
	ScreenChat                  // Conversation
)

// HeaderPulseMsg advances the live indicator.
type HeaderPulseMsg struct{}

// ConfigChangedMsg is sent by the config watcher.
type ConfigChangedMsg struct {
	Config *config.Config
	Err    error
}

// Deps are the services the TUI talks to.
type Deps struct {
	Store       *storage.SessionStore
	Client      chat.Sender
	Telemetry   *telemetry.Logger
	StorageName string
}

// App is the root Bubble Tea model. It owns the header, the particle layer
// and the landing hero, and hosts the chat screen.
type App struct {
	cfg     *config.Config
	theme   *styles.Theme
	profile termenv.Profile

	// fileTheme is ui.theme as last loaded from disk. A reload only
	// overrides a live toggle when this value changes.
	fileTheme string

	header *components.Header
	hero   *components.Hero
	chat   chat.Model
	layer  *fluid.Layer

	screen Screen
	width  int
	height int
}

// NewApp builds the TUI. profile is the terminal's color profile; the
// particle layer is inert when it is termenv.Ascii or particles are off.
func NewApp(cfg *config.Config, deps Deps, profile termenv.Profile) *App {
	theme := styles.NewTheme(styles.ResolveDark(cfg.UI.Theme))
	a := &App{
		cfg:       cfg,
		theme:     theme,
		profile:   profile,
		fileTheme: cfg.UI.Theme,
		header:  components.NewHeader(theme),
		hero:    components.NewHero(theme, cfg.Chat),
		chat: chat.New(chat.Options{
			Store:       deps.Store,
			Client:      deps.Client,
			Telemetry:   deps.Telemetry,
			Theme:       theme,
			Config:      cfg.Chat,
			Timeout:     cfg.Gateway.Timeout(),
			Markdown:    cfg.UI.Markdown,
			Sidebar:     cfg.UI.Sidebar,
			StorageName: deps.StorageName,
		}),
	}
	a.layer = a.newLayer()
	return a
}

// newLayer builds a particle layer for the current theme and size.
func (a *App) newLayer() *fluid.Layer {
	profile := a.profile
	if !a.cfg.UI.Particles {
		profile = termenv.Ascii
	}
	opts := []fluid.LayerOption{fluid.WithFPS(a.cfg.UI.FPS)}
	if a.width > 0 && a.bodyHeight() > 0 {
		opts = append(opts, fluid.WithViewport(a.width, a.bodyHeight()))
	}
	return fluid.NewLayer(fluid.ParseTheme(a.theme.Name()), profile, opts...)
}

// Screen returns the visible screen.
func (a *App) Screen() Screen { return a.screen }

// Theme returns the active theme.
func (a *App) Theme() *styles.Theme { return a.theme }

// Layer returns the particle layer.
func (a *App) Layer() *fluid.Layer { return a.layer }

// Hero returns the landing screen.
func (a *App) Hero() *components.Hero { return a.hero }

// Chat returns the chat screen.
func (a *App) Chat() chat.Model { return a.chat }

func pulse() tea.Cmd {
	return tea.Tick(styles.LiveDot.Duration(), func(time.Time) tea.Msg {
		return HeaderPulseMsg{}
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.layer.Init(), pulse())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a, a.resize(msg.Width, msg.Height)

	case fluid.FrameMsg:
		return a, a.layer.Update(msg)

	case HeaderPulseMsg:
		a.header.Pulse()
		return a, pulse()

	case tea.MouseMsg:
		// The layer and the chat panel start below the header.
		msg.Y -= a.header.Height()
		cmds := []tea.Cmd{a.layer.Update(msg)}
		if a.screen == ScreenChat {
			msg.X -= a.chatOffset()
			cmds = append(cmds, a.updateChat(msg))
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if a.screen == ScreenLanding {
			return a.handleLandingKey(msg)
		}
		return a, a.updateChat(msg)

	case chat.GoHomeMsg:
		a.hero.SetConfig(a.chat.Config())
		a.screen = ScreenLanding
		return a, nil

	case chat.ToggleThemeMsg:
		return a, a.toggleTheme()

	case ConfigChangedMsg:
		return a, a.applyConfig(msg)
	}

	// Responses, spinner, sidebar and toast ticks belong to the chat
	// screen even while the landing is shown.
	return a, a.updateChat(msg)
}

func (a *App) updateChat(msg tea.Msg) tea.Cmd {
	m, cmd := a.chat.Update(msg)
	a.chat = m.(chat.Model)
	return cmd
}

func (a *App) bodyHeight() int {
	h := a.height - a.header.Height()
	if h < 0 {
		h = 0
	}
	return h
}

func (a *App) chatWidth() int {
	if a.width > maxChatWidth {
		return maxChatWidth
	}
	return a.width
}

func (a *App) chatOffset() int {
	return (a.width - a.chatWidth()) / 2
}

func (a *App) resize(width, height int) tea.Cmd {
	a.width, a.height = width, height
	body := a.bodyHeight()
	a.header.SetWidth(width)
	a.hero.SetSize(width, body)
	a.chat.SetSize(a.chatWidth(), body)
	return a.layer.Update(tea.WindowSizeMsg{Width: width, Height: body})
}

func (a *App) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "left", "h", "shift+tab":
		a.hero.MoveFocus(-1)
	case "right", "l", "tab":
		a.hero.MoveFocus(1)
	case "up", "k":
		a.hero.Cycle(-1)
	case "down", "j", " ":
		a.hero.Cycle(1)
	case "t":
		return a, a.toggleTheme()
	case "enter":
		return a, a.startChat()
	}
	return a, nil
}

// startChat carries the landing selections into the chat screen and
// reopens the last discussion, or the newest one on first entry. A return
// trip from the landing keeps the open discussion instead of jumping to the
// newest.
func (a *App) startChat() tea.Cmd {
	a.chat.SetConfig(a.hero.Config())
	a.screen = ScreenChat
	if a.chat.CurrentID() != "" {
		return nil
	}
	if err := a.chat.Start(); err != nil {
		return a.notify(components.ToastKindError, fmt.Sprintf("Could not open a discussion: %v", err))
	}
	return a.chat.Init()
}

// toggleTheme switches dark/light and rebuilds the particle layer, whose
// blend mode and particle cap depend on the theme.
func (a *App) toggleTheme() tea.Cmd {
	a.setTheme(styles.NewTheme(!a.theme.Dark))
	a.cfg.UI.Theme = config.ThemeLight
	if a.theme.Dark {
		a.cfg.UI.Theme = config.ThemeDark
	}
	return a.rebuildLayer()
}

func (a *App) setTheme(theme *styles.Theme) {
	a.theme = theme
	a.header.SetTheme(theme)
	a.hero.SetTheme(theme)
	a.chat.SetTheme(theme)
}

func (a *App) rebuildLayer() tea.Cmd {
	a.layer.Dispose()
	a.layer = a.newLayer()
	return a.layer.Init()
}

// applyConfig takes a reloaded config. Theme, particles, frame rate and the
// landing selections apply live; gateway and storage changes need a restart.
func (a *App) applyConfig(msg ConfigChangedMsg) tea.Cmd {
	if msg.Err != nil {
		return a.notify(components.ToastKindWarning, "Config not reloaded: "+msg.Err.Error())
	}
	prev := a.cfg
	a.cfg = msg.Config.Clone()
	if a.cfg.UI.Theme == a.fileTheme {
		a.cfg.UI.Theme = prev.UI.Theme
	} else {
		a.fileTheme = a.cfg.UI.Theme
	}

	var cmds []tea.Cmd
	themeChanged := styles.ResolveDark(a.cfg.UI.Theme) != a.theme.Dark
	if themeChanged {
		a.setTheme(styles.NewTheme(!a.theme.Dark))
	}
	if themeChanged || prev.UI.Particles != a.cfg.UI.Particles || prev.UI.FPS != a.cfg.UI.FPS {
		cmds = append(cmds, a.rebuildLayer())
	}
	if a.screen == ScreenLanding {
		a.hero.SetConfig(a.cfg.Chat)
	}
	cmds = append(cmds, a.notify(components.ToastKindSuccess, "Configuration reloaded"))
	return tea.Batch(cmds...)
}

// notify shows a toast on the chat screen, starting the expiry ticker when
// the stack was empty.
func (a *App) notify(kind components.ToastKind, text string) tea.Cmd {
	toasts := a.chat.Toasts()
	idle := toasts.Len() == 0
	toasts.Add(kind, text)
	if idle {
		return components.ToastTickCmd()
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Initializing..."
	}

	var body string
	switch a.screen {
	case ScreenChat:
		body = a.layer.Overlay(a.chat.View(), a.chatOffset(), 0)
	default:
		block := a.hero.Block()
		x, y := a.hero.Offset(block)
		body = a.layer.Overlay(block, x, y)
	}
	return a.header.View() + "\n" + body
}
