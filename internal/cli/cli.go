// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and usage for ictchat.

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSession
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdSession:
		return "session"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Theme       string // --theme dark|light|auto
	Storage     string // --storage BACKEND
	Ephemeral   bool   // --ephemeral: in-memory sessions
	NoParticles bool   // --no-particles
	JSON        bool   // --json

	// Command-specific
	Name string   // command word as typed, for error messages
	Raw  []string // arguments after the command word
}

const usageText = `ictchat - ICT Bangladesh AI in your terminal

Usage:
  ictchat                      Start the TUI (default)
  ictchat tui                  Start the TUI
  ictchat ask "question"       Ask a single question
  ictchat chat                 Line-mode chat with history
  ictchat session <subcommand> Manage saved discussions
  ictchat config <subcommand>  Show or change configuration
  ictchat version              Show version information
  ictchat help                 Show this help

Ask:
  ictchat ask [flags] "question"
    --raw                      Print the raw webhook JSON (highlighted on a TTY)
    --session ID               Continue an existing discussion
    --audience A               Citizen, Entrepreneur, Developer, Govt Official
    --topic T                  e-Governance, Cybersecurity, ICT Policy, Infrastructure
    --language L               English, Bengali, Arabic, French

Chat commands:
  /new                         Start a new discussion
  /sessions                    List discussions
  /quit                        Leave

Session:
  ictchat session list         List discussions, newest first
  ictchat session show ID      Print a discussion
  ictchat session export ID    Export as Markdown
    --format FORMAT            markdown, json or html
    --out DIR                  Write a file instead of printing
  ictchat session delete ID    Delete one discussion
  ictchat session clear        Delete every discussion

Config:
  ictchat config show          Print the effective configuration
  ictchat config get KEY       Print one value (e.g. ui.theme)
  ictchat config set KEY VAL   Change one value and save
  ictchat config path          Print the config file path

Global flags:
  --theme dark|light|auto      Override ui.theme
  --storage BACKEND            file, sqlite, gdata, redis or memory
  --ephemeral                  Keep discussions in memory only
  --no-particles               Disable the particle background
  --json                       Machine-readable output where supported

Environment:
  ICTCHAT_HOME                 Config directory (default ~/.ictchat)
  ICTCHAT_GATEWAY_URL          Chat webhook URL
  ICTCHAT_THEME                dark, light or auto
  ICTCHAT_STORAGE              Storage backend
  NO_COLOR                     Disable colors
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "ictchat %s (commit %s, built %s, %s %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv without the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	parsed.Name = remaining[0]
	parsed.Raw = remaining[1:]

	switch strings.ToLower(remaining[0]) {
	case "tui":
		return CmdTUI, parsed
	case "ask", "a":
		return CmdAsk, parsed
	case "chat", "c":
		return CmdChat, parsed
	case "session", "sessions":
		return CmdSession, parsed
	case "config":
		return CmdConfig, parsed
	case "version", "-v", "--version":
		return CmdVersion, parsed
	case "help", "-h", "--help":
		return CmdHelp, parsed
	default:
		return CmdUnknown, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--ephemeral":
			parsed.Ephemeral = true
		case arg == "--no-particles":
			parsed.NoParticles = true
		case arg == "--json":
			parsed.JSON = true
		case arg == "--theme" || arg == "--storage":
			if i+1 < len(args) {
				i++
				if arg == "--theme" {
					parsed.Theme = args[i]
				} else {
					parsed.Storage = args[i]
				}
			}
		case strings.HasPrefix(arg, "--theme="):
			parsed.Theme = strings.TrimPrefix(arg, "--theme=")
		case strings.HasPrefix(arg, "--storage="):
			parsed.Storage = strings.TrimPrefix(arg, "--storage=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// Run executes a non-TUI command, writing to out.
func Run(cmd Command, args Args, out io.Writer) error {
	switch cmd {
	case CmdAsk:
		return HandleAsk(args, out)
	case CmdChat:
		return HandleChat(args, out)
	case CmdSession:
		return HandleSession(args, out)
	case CmdConfig:
		return HandleConfig(args, out)
	case CmdVersion:
		return HandleVersion(args, out)
	case CmdHelp:
		PrintUsage(out)
		return nil
	default:
		return NewValidationErrorWithExample("command", args.Name, "unknown command", "ictchat help")
	}
}

// HandleVersion prints the version, as JSON with --json.
func HandleVersion(args Args, out io.Writer) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}).Write(out)
	}
	PrintVersion(out)
	return nil
}
