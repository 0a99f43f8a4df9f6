// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals where the full TUI is unwanted.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Commands:
//   /new                Start a new discussion
//   /sessions           List discussions
//   /open ID            Continue a saved discussion
//   /audience VALUE     Change the audience (also /topic, /language)
//   /config             Show the current audience, topic and language
//   /raw                Print the raw response of the last answer
//   /help               Show commands
//   /quit, exit, quit   Leave
//
// Ctrl+C during a request cancels it; at the prompt it exits.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"

	"github.com/jeranaias/ictchat/internal/gateway"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/storage"
	"github.com/jeranaias/ictchat/internal/ui/components"
)

// HistoryFileName is the liner history file in the config directory.
const HistoryFileName = "chat_history"

// =============================================================================
// INPUT HANDLING
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI whose history lives in dir.
func NewChatCLI(dir string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, HistoryFileName),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	// SECURITY: 0600, questions may be personal
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession is the state of one line-mode chat.
type ChatSession struct {
	rt        *Runtime
	out       io.Writer
	sessionID string
	chat      model.ChatConfig
	lastRaw   []byte

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewChatSession starts a line-mode chat over rt.
func NewChatSession(rt *Runtime, out io.Writer) *ChatSession {
	return &ChatSession{
		rt:   rt,
		out:  out,
		chat: rt.Config.Chat.WithDefaults(),
	}
}

// SessionID returns the discussion the next question goes to. Empty until
// the first question creates one.
func (s *ChatSession) SessionID() string {
	return s.sessionID
}

// Interrupt cancels an in-flight request. Reports whether one was running.
func (s *ChatSession) Interrupt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

func (s *ChatSession) setCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
}

// Run is the REPL. It returns when the reader fails or the user quits.
func (s *ChatSession) Run(ctx context.Context, in LineReader) error {
	for {
		input, err := in.ReadInput("you> ")
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D
			fmt.Fprintln(s.out)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !s.handleSlash(input) {
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		if err := s.ask(ctx, input); err != nil {
			fmt.Fprintf(s.out, "%s %s\n", ErrorStyle.Render("[Error]"), chatErrorText(err))
		}
	}
}

// chatErrorText is the line shown for a failed question.
func chatErrorText(err error) string {
	if errors.Is(err, gateway.ErrCanceled) {
		return "Request canceled"
	}
	return err.Error()
}

func (s *ChatSession) ask(parent context.Context, question string) error {
	ctx, cancel := context.WithCancel(parent)
	s.setCancel(cancel)
	defer func() {
		s.setCancel(nil)
		cancel()
	}()

	fmt.Fprintln(s.out, DimStyle.Render("Processing..."))
	res, err := Ask(ctx, s.rt, AskOptions{
		Query:     question,
		SessionID: s.sessionID,
		Chat:      s.chat,
	})
	if res.Session.ID != "" {
		s.sessionID = res.Session.ID
	}
	if err != nil {
		return err
	}

	s.lastRaw = res.Reply.Raw
	fmt.Fprintln(s.out, TitleStyle.Render(model.RoleAssistant.DisplayName()))
	displayResponse(s.out, res.Reply.Text)
	displaySources(s.out, res.Reply.Sources)
	return nil
}

// handleSlash runs a slash command. It returns false to leave the REPL.
func (s *ChatSession) handleSlash(input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "/quit", "/q", "/exit":
		return false
	case "/new", "/n":
		s.sessionID = ""
		fmt.Fprintln(s.out, SuccessStyle.Render("Started a new discussion."))
	case "/sessions", "/ls":
		list := s.rt.Store.List()
		if len(list) == 0 {
			fmt.Fprintln(s.out, DimStyle.Render("No past discussions."))
		} else {
			fmt.Fprint(s.out, storage.FormatSessionList(list))
		}
	case "/open":
		if arg == "" {
			fmt.Fprintln(s.out, WarningStyle.Render("Usage: /open ID"))
			break
		}
		sess, err := s.rt.Store.Get(arg)
		if err != nil {
			fmt.Fprintf(s.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			break
		}
		s.sessionID = sess.ID
		fmt.Fprintf(s.out, "Continuing %s (%d messages)\n", ValueStyle.Render(sess.DisplayTitle()), len(sess.Messages))
	case "/audience":
		s.chat.Audience = s.setOption(model.AudienceOptions, arg, s.chat.Audience)
	case "/topic":
		s.chat.Topic = s.setOption(model.TopicOptions, arg, s.chat.Topic)
	case "/language", "/lang":
		s.chat.Language = s.setOption(model.LanguageOptions, arg, s.chat.Language)
	case "/config":
		s.printConfig()
	case "/raw":
		if len(s.lastRaw) == 0 {
			fmt.Fprintln(s.out, DimStyle.Render("No response received yet."))
		} else {
			fmt.Fprintln(s.out, components.PrettyJSON(s.lastRaw))
		}
	case "/help", "/h", "/?":
		printChatHelp(s.out)
	default:
		fmt.Fprintf(s.out, "%s unknown command %s (try /help)\n", WarningStyle.Render("[Warn]"), cmd)
	}
	return true
}

func (s *ChatSession) setOption(options []string, value, current string) string {
	if value == "" {
		fmt.Fprintf(s.out, "Options: %s\n", strings.Join(options, ", "))
		return current
	}
	v := matchOption(options, value)
	fmt.Fprintf(s.out, "%s %s\n", SuccessStyle.Render("Set to"), v)
	return v
}

func (s *ChatSession) printConfig() {
	fmt.Fprintf(s.out, "%s%s\n", RenderLabel("Audience"), s.chat.Audience)
	fmt.Fprintf(s.out, "%s%s\n", RenderLabel("Topic"), s.chat.Topic)
	fmt.Fprintf(s.out, "%s%s\n", RenderLabel("Language"), s.chat.Language)
}

func printChatHelp(out io.Writer) {
	cmds := []struct{ cmd, desc string }{
		{"/new", "Start a new discussion"},
		{"/sessions", "List discussions"},
		{"/open ID", "Continue a saved discussion"},
		{"/audience VALUE", "Change the audience"},
		{"/topic VALUE", "Change the topic"},
		{"/language VALUE", "Change the answer language"},
		{"/config", "Show audience, topic and language"},
		{"/raw", "Show the raw response of the last answer"},
		{"/quit", "Leave"},
	}
	for _, c := range cmds {
		fmt.Fprintf(out, "  %s%s\n", RenderLabel(c.cmd), c.desc)
	}
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat handles "ictchat chat".
func HandleChat(args Args, out io.Writer) error {
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	session := NewChatSession(rt, out)
	input := NewChatCLI(rt.Dir)
	defer input.Close()

	// First Ctrl+C cancels the current request. At the prompt liner
	// reports ErrPromptAborted instead.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if session.Interrupt() {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("[Cancelled]"))
			}
		}
	}()

	fmt.Fprintln(out, TitleStyle.Render("ICT Bangladesh AI"))
	fmt.Fprintln(out, DimStyle.Render(components.EmptySubtitle+" · /help for commands"))
	fmt.Fprintln(out)

	return session.Run(context.Background(), input)
}
