// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - Session management commands.
//
// Usage:
//
//	ictchat session list
//	ictchat session show ID
//	ictchat session export ID [--format md|json|html] [--out DIR]
//	ictchat session delete ID
//	ictchat session clear

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/ictchat/internal/export"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/storage"
)

// HandleSession handles "ictchat session".
func HandleSession(args Args, out io.Writer) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return runSession(rt.Store, args, out)
}

func runSession(store *storage.SessionStore, args Args, out io.Writer) error {
	p := NewArgParser(args.Raw, "json")
	jsonMode := args.JSON || p.BoolFlag("json")
	sub := strings.ToLower(p.Subcommand())
	id := p.Positional(1)

	switch sub {
	case "", "list", "ls":
		return sessionList(store, jsonMode, out)
	case "show":
		if id == "" {
			return NewValidationErrorWithExample("session ID", "", "required", "ictchat session show chat_1700000000000")
		}
		return sessionShow(store, id, jsonMode, out)
	case "export":
		if id == "" {
			return NewValidationErrorWithExample("session ID", "", "required", "ictchat session export chat_1700000000000 --format html")
		}
		format := p.Flag("format")
		if format == "" && jsonMode {
			format = string(export.FormatJSON)
		}
		return sessionExport(store, id, format, p.Flag("out"), jsonMode, out)
	case "delete", "rm":
		if id == "" {
			return NewValidationErrorWithExample("session ID", "", "required", "ictchat session delete chat_1700000000000")
		}
		if _, err := store.Delete(id, ""); err != nil {
			return sessionErr("delete", id, err)
		}
		if jsonMode {
			return NewJSONResponse("session delete", map[string]string{"id": id}).Write(out)
		}
		fmt.Fprintf(out, "%s Deleted %s\n", SuccessStyle.Render("[OK]"), id)
		return nil
	case "clear":
		n := store.Len()
		if err := store.Clear(); err != nil {
			return NewCommandError("session", "clear", "could not save", err)
		}
		if jsonMode {
			return NewJSONResponse("session clear", map[string]int{"deleted": n}).Write(out)
		}
		fmt.Fprintf(out, "%s Deleted %d discussion(s)\n", SuccessStyle.Render("[OK]"), n)
		return nil
	default:
		return NewValidationErrorWithExample("session subcommand", sub, "must be list, show, export, delete or clear", "ictchat session list")
	}
}

func sessionErr(action, id string, err error) error {
	if errors.Is(err, storage.ErrSessionNotFound) {
		return NewNotFoundError("session", id)
	}
	return NewCommandError("session", action, id, err)
}

func sessionList(store *storage.SessionStore, jsonMode bool, out io.Writer) error {
	sessions := store.List()
	if jsonMode {
		rows := make([]SessionSummary, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, SessionSummary{
				ID:          s.ID,
				Title:       s.DisplayTitle(),
				Messages:    len(s.Messages),
				LastUpdated: s.LastUpdated.UTC().Format(time.RFC3339),
			})
		}
		return NewJSONResponse("session list", rows).Write(out)
	}
	fmt.Fprint(out, storage.FormatSessionList(sessions))
	if len(sessions) == 0 {
		fmt.Fprintln(out)
	}
	return nil
}

func sessionShow(store *storage.SessionStore, id string, jsonMode bool, out io.Writer) error {
	sess, err := store.Get(id)
	if err != nil {
		return sessionErr("show", id, err)
	}
	if jsonMode {
		return NewJSONResponse("session show", sess).Write(out)
	}

	fmt.Fprintln(out, TitleStyle.Render(sess.DisplayTitle()))
	fmt.Fprintf(out, "%s%s\n", RenderLabel("ID"), sess.ID)
	fmt.Fprintf(out, "%s%s\n", RenderLabel("Updated"), sess.LastUpdated.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "%s%d\n", RenderLabel("Messages"), len(sess.Messages))
	fmt.Fprintln(out, RenderSeparator())
	for _, msg := range sess.Messages {
		printMessage(out, msg)
	}
	return nil
}

func printMessage(out io.Writer, msg model.Message) {
	style := TitleStyle
	if msg.IsUser() {
		style = PromptStyle
	}
	fmt.Fprintf(out, "%s %s\n", style.Render(msg.Role.DisplayName()), DimStyle.Render(msg.Timestamp.Local().Format("15:04")))
	fmt.Fprintln(out, msg.Content)
	displaySources(out, msg.Sources)
	fmt.Fprintln(out)
}

// sessionExport prints the rendered session, or writes it under outDir
// and prints the path.
func sessionExport(store *storage.SessionStore, id, formatName, outDir string, jsonMode bool, out io.Writer) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return NewValidationErrorWithExample("format", formatName, "must be markdown, json or html", "ictchat session export ID --format html")
	}
	sess, err := store.Get(id)
	if err != nil {
		return sessionErr("export", id, err)
	}

	if outDir != "" {
		path, err := export.ToFile(sess, format, &export.Options{OutputDir: outDir, IncludeTimestamps: true})
		if err != nil {
			return NewCommandError("session", "export", "write failed", err)
		}
		if jsonMode {
			return NewJSONResponse("session export", map[string]string{"id": id, "path": path}).Write(out)
		}
		fmt.Fprintf(out, "%s Exported %s to %s\n", SuccessStyle.Render("[OK]"), id, path)
		return nil
	}

	exporter, err := export.New(format, nil)
	if err != nil {
		return NewCommandError("session", "export", "unsupported format", err)
	}
	data, err := exporter.Export(sess)
	if err != nil {
		return NewCommandError("session", "export", "render failed", err)
	}
	if format == export.FormatJSON {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err = out.Write(data)
	return err
}
