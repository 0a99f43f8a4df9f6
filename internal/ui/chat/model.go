// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/gateway"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/storage"
	"github.com/jeranaias/ictchat/internal/telemetry"
	"github.com/jeranaias/ictchat/internal/ui/components"
	"github.com/jeranaias/ictchat/internal/ui/styles"
)

// Input line settings.
const (
	InputPlaceholder = "Ask about ICT Bangladesh..."
	InputCharLimit   = 4000
	ProcessingLabel  = "Processing..."
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Sender posts one question. *gateway.Client implements it.
type Sender interface {
	Send(ctx context.Context, req gateway.Request) (*gateway.Reply, error)
}

// Options wires the chat screen to its collaborators.
type Options struct {
	Store     *storage.SessionStore
	Client    Sender
	Telemetry *telemetry.Logger
	Theme     *styles.Theme
	Config    model.ChatConfig

	// Timeout bounds each request. Zero uses gateway.DefaultTimeout.
	Timeout time.Duration

	Markdown    bool
	Sidebar     bool
	StorageName string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	store     *storage.SessionStore
	client    Sender
	telemetry *telemetry.Logger
	theme     *styles.Theme
	keys      KeyMap
	config    model.ChatConfig
	timeout   time.Duration

	// Components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	sidebar   *components.Sidebar
	statusBar *components.StatusBar
	toasts    *components.ToastManager
	markdown  *components.MarkdownRenderer
	useMD     bool

	// Request state
	cancelMgr *cancelManager
	inFlight  bool
	seq       int
	errLine   string

	// Session state
	currentID string
	lastRaw   []byte
	showRaw   bool

	width  int
	height int
}

// New creates the chat screen.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(true)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = gateway.DefaultTimeout
	}

	ti := textinput.New()
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = InputCharLimit
	ti.Prompt = "› "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = styles.ProcessingSpinner.Spinner()

	m := Model{
		store:     opts.Store,
		client:    opts.Client,
		telemetry: opts.Telemetry,
		keys:      DefaultKeyMap(),
		config:    opts.Config.WithDefaults(),
		timeout:   timeout,
		viewport:  viewport.New(80, 20),
		input:     ti,
		spinner:   sp,
		sidebar:   components.NewSidebar(theme, opts.Sidebar),
		statusBar: components.NewStatusBar(theme),
		toasts:    components.NewToastManager(),
		useMD:     opts.Markdown,
		cancelMgr: newCancelManager(),
		width:     80,
		height:    24,
	}
	m.statusBar.Storage = opts.StorageName
	m.applyTheme(theme)
	return m
}

// applyTheme points every component at theme.
func (m *Model) applyTheme(theme *styles.Theme) {
	m.theme = theme
	m.sidebar.SetTheme(theme)
	m.statusBar.SetTheme(theme)
	m.spinner.Style = theme.Thinking
	m.input.PromptStyle = theme.InputPrompt
	m.input.PlaceholderStyle = theme.InputPlaceholder
	m.input.TextStyle = lipgloss.NewStyle().Foreground(theme.Palette.Text)
	if m.useMD {
		m.markdown = components.NewMarkdownRenderer(theme.Dark)
	}
}

// SetTheme re-themes the screen after a toggle.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.applyTheme(theme)
	m.refresh(false)
}

// SetConfig replaces the audience, topic and language sent with requests.
func (m *Model) SetConfig(cfg model.ChatConfig) {
	m.config = cfg.WithDefaults()
}

// Config returns the current chat configuration.
func (m Model) Config() model.ChatConfig { return m.config }

// CurrentID returns the open session's ID, or "".
func (m Model) CurrentID() string { return m.currentID }

// InFlight reports whether a request is outstanding.
func (m Model) InFlight() bool { return m.inFlight }

// ErrorLine returns the last request error shown to the user.
func (m Model) ErrorLine() string { return m.errLine }

// Toasts exposes the notification stack.
func (m Model) Toasts() *components.ToastManager { return m.toasts }

// =============================================================================
// SESSIONS
// =============================================================================

// Start opens the newest session, creating one when the store is empty.
func (m *Model) Start() error {
	if sess, ok := m.store.First(); ok {
		m.Open(sess.ID)
		return nil
	}
	sess, err := m.store.Create()
	if err != nil {
		return err
	}
	m.Open(sess.ID)
	return nil
}

// Open shows session id.
func (m *Model) Open(id string) {
	m.currentID = id
	m.errLine = ""
	m.showRaw = false
	m.refresh(true)
}

// current returns the open session.
func (m Model) current() (model.Session, bool) {
	if m.currentID == "" {
		return model.Session{}, false
	}
	sess, err := m.store.Get(m.currentID)
	if err != nil {
		return model.Session{}, false
	}
	return sess, true
}

// =============================================================================
// LAYOUT
// =============================================================================

// SetSize sets the area the chat screen may draw in.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.refresh(false)
}

// inputHeight is the input box plus its border.
const inputHeight = 3

// panelWidth is the conversation width next to the sidebar.
func (m Model) panelWidth() int {
	w := m.width - m.sidebar.Width()
	if w < 20 {
		w = 20
	}
	return w
}

// bodyHeight is the viewport height without toasts or the error line.
func (m Model) bodyHeight() int {
	h := m.height - inputHeight - 1
	if h < 3 {
		h = 3
	}
	return h
}

// refresh re-renders the conversation into the viewport.
func (m *Model) refresh(bottom bool) {
	pw := m.panelWidth()
	m.viewport.Width = pw
	m.viewport.Height = m.bodyHeight()
	m.input.Width = pw - 6
	m.statusBar.Width = m.width
	if m.store != nil {
		m.statusBar.Sessions = m.store.Len()
	}

	m.viewport.SetContent(m.renderContent(pw - 2))
	if bottom {
		m.viewport.GotoBottom()
	}
}
