// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SanitizeTerminal removes ANSI escape sequences and C0/C1 control
// characters from text that came over the network, so it cannot move the
// cursor, clear the screen or set the clipboard when printed. Newlines and
// tabs are kept.
func SanitizeTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}
