// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI commands of ictchat: one-shot ask, the
// line-mode chat REPL, session management and configuration.
//
// Commands return errors to main, which displays them with DisplayError and
// exits with GetExitCode.
package cli
