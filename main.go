// ictchat - ICT Bangladesh AI in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ictchat/internal/cli"
	"github.com/jeranaias/ictchat/internal/config"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// LogFileName is written in the config directory. The TUI owns the
// terminal, so logs never go to stderr.
const LogFileName = "ictchat.log"

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	closeLog := setupLogging()

	var err error
	if cmd == cli.CmdTUI {
		err = runTUI(args)
	} else {
		err = cli.Run(cmd, args, os.Stdout)
	}

	closeLog()
	if err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}

// setupLogging sends the standard logger to the log file, or discards it
// when the config directory is unusable.
func setupLogging() func() {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := tea.LogToFile(filepath.Join(dir, LogFileName), "ictchat")
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() { f.Close() }
}

// runTUI starts the TUI interface.
func runTUI(args cli.Args) error {
	rt, err := cli.OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	app := NewApp(rt.Config, Deps{
		Store:       rt.Store,
		Client:      rt.Client,
		Telemetry:   rt.Telemetry,
		StorageName: rt.StorageName(),
	}, lipgloss.ColorProfile())

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Pointer movement drives the particles
	)

	watcher, err := config.NewWatcher(rt.Dir, config.DefaultDebounce, func(cfg *config.Config, err error) {
		if err == nil {
			err = cli.ApplyGlobalFlags(cfg, args)
		}
		p.Send(ConfigChangedMsg{Config: cfg, Err: err})
	})
	if err != nil {
		log.Printf("config watcher disabled: %v", err)
	} else {
		watcher.Start()
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running ictchat: %w", err)
	}
	return nil
}
