// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/ictchat/internal/gateway"
)

// =============================================================================
// REQUEST MESSAGES
// =============================================================================

// ResponseMsg carries the outcome of one send. Seq matches the request that
// produced it; responses for an older Seq are dropped.
type ResponseMsg struct {
	Seq       int
	SessionID string
	Query     string
	Reply     *gateway.Reply
	Err       error
}

// =============================================================================
// MESSAGES FOR THE ROOT MODEL
// =============================================================================

// GoHomeMsg asks the root model to show the landing screen.
type GoHomeMsg struct{}

// ToggleThemeMsg asks the root model to switch between dark and light.
type ToggleThemeMsg struct{}
