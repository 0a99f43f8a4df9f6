// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// USABILITY: Markdown rendering on a TTY, plain text when piped
//
// Usage:
//
//	ictchat ask "What is a2i?"
//	ictchat ask --raw "What is a2i?"
//	ictchat ask --session chat_1700000000000 "And the budget?"
//	ictchat ask --audience Developer --language Bengali "..."

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ictchat/internal/gateway"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/telemetry"
	"github.com/jeranaias/ictchat/internal/ui/components"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	markdownRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse writes an answer, rendering markdown only when stdout is a
// TTY so piped output stays clean.
func displayResponse(out io.Writer, response string) {
	if f, ok := out.(*os.File); ok && f == os.Stdout && IsStdoutTTY() {
		fmt.Fprint(out, renderMarkdown(response))
		return
	}
	fmt.Fprintln(out, response)
}

// displaySources lists citation links under an answer.
func displaySources(out io.Writer, sources []model.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(out, SectionStyle.Render(components.SourcesTitle))
	for i, src := range sources {
		fmt.Fprintf(out, "  %d. %s %s\n", i+1, ValueStyle.Render(src.Label()), DimStyle.Render(src.URI))
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// AskOptions holds the parsed ask flags.
type AskOptions struct {
	Query     string
	SessionID string
	Raw       bool
	Chat      model.ChatConfig
}

// ParseAskOptions reads the ask flags. Chat settings not given on the
// command line come from defaults.
func ParseAskOptions(raw []string, defaults model.ChatConfig) (AskOptions, error) {
	p := NewArgParser(raw, "raw")
	opts := AskOptions{
		Query:     strings.TrimSpace(JoinPositionalArgs(p, 0)),
		SessionID: p.Flag("session"),
		Raw:       p.BoolFlag("raw"),
		Chat: model.ChatConfig{
			Audience: matchOption(model.AudienceOptions, p.FlagOrDefault("audience", defaults.Audience)),
			Topic:    matchOption(model.TopicOptions, p.FlagOrDefault("topic", defaults.Topic)),
			Language: matchOption(model.LanguageOptions, p.FlagOrDefault("language", defaults.Language)),
		}.WithDefaults(),
	}
	if opts.Query == "" {
		return opts, NewValidationErrorWithExample("question", "", "a question is required", `ictchat ask "What is a2i?"`)
	}
	return opts, nil
}

// matchOption returns the canonical spelling of value when it names one of
// options case-insensitively, and value unchanged otherwise.
func matchOption(options []string, value string) string {
	for _, o := range options {
		if strings.EqualFold(o, strings.TrimSpace(value)) {
			return o
		}
	}
	return value
}

// AskResult is the outcome of one question.
type AskResult struct {
	Session model.Session
	Reply   *gateway.Reply
}

// Ask records the question in a session (a new one unless opts.SessionID is
// set), sends it and records the answer. On a gateway error the question
// stays in the session and the error is returned.
func Ask(ctx context.Context, rt *Runtime, opts AskOptions) (AskResult, error) {
	var sess model.Session
	var err error
	if opts.SessionID != "" {
		sess, err = rt.Store.Get(opts.SessionID)
	} else {
		sess, err = rt.Store.Create()
	}
	if err != nil {
		return AskResult{}, err
	}

	messages := append(sess.Messages, model.NewUserMessage(opts.Query))
	if sess, err = rt.Store.UpdateMessages(sess.ID, messages); err != nil {
		return AskResult{}, err
	}

	reply, err := rt.Client.Send(ctx, gateway.Request{
		Input:     opts.Query,
		SessionID: sess.ID,
		Config:    opts.Chat,
	})
	if err != nil {
		var gwErr *gateway.GatewayError
		if errors.As(err, &gwErr) {
			log.Printf("ask: %s failed: %s", sess.ID, gwErr.Detail())
		}
		return AskResult{Session: sess}, err
	}

	messages = append(sess.Messages, model.NewAssistantMessage(reply.Text, reply.Sources))
	if sess, err = rt.Store.UpdateMessages(sess.ID, messages); err != nil {
		return AskResult{Session: sess, Reply: reply}, err
	}

	rt.Telemetry.LogAsync(telemetry.Event{
		Name:     telemetry.EventChatExchange,
		ChatID:   sess.ID,
		Query:    opts.Query,
		Response: reply.Text,
		Metadata: map[string]interface{}{
			"audience":    opts.Chat.Audience,
			"topic":       opts.Chat.Topic,
			"language":    opts.Chat.Language,
			"duration_ms": reply.Duration.Milliseconds(),
			"matched":     reply.Matched,
			"source":      "cli",
		},
	})

	return AskResult{Session: sess, Reply: reply}, nil
}

// HandleAsk handles "ictchat ask".
func HandleAsk(args Args, out io.Writer) error {
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return runAsk(ctx, rt, args, out)
}

func runAsk(ctx context.Context, rt *Runtime, args Args, out io.Writer) error {
	opts, err := ParseAskOptions(args.Raw, rt.Config.Chat)
	if err != nil {
		return err
	}

	res, err := Ask(ctx, rt, opts)
	if err != nil {
		if errors.Is(err, gateway.ErrCanceled) {
			return NewCommandError("ask", "send", "canceled", err)
		}
		return err
	}

	if args.JSON {
		data := AskData{
			SessionID:  res.Session.ID,
			Query:      opts.Query,
			Answer:     res.Reply.Text,
			Sources:    res.Reply.Sources,
			Matched:    res.Reply.Matched,
			DurationMS: res.Reply.Duration.Milliseconds(),
		}
		if data.Sources == nil {
			data.Sources = []model.Source{}
		}
		if opts.Raw {
			data.Raw = string(res.Reply.Raw)
		}
		return NewJSONResponse("ask", data).Write(out)
	}

	if opts.Raw {
		if ColorsEnabled() {
			fmt.Fprintln(out, components.HighlightJSON(res.Reply.Raw, true))
		} else {
			fmt.Fprintln(out, components.PrettyJSON(res.Reply.Raw))
		}
		return nil
	}

	displayResponse(out, res.Reply.Text)
	displaySources(out, res.Reply.Sources)
	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("session %s · %s", res.Session.ID, res.Reply.Duration.Round(time.Millisecond))))
	return nil
}
