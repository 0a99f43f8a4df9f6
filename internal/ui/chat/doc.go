// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat screen of the ictchat TUI.

The Model shows the session sidebar, the conversation viewport, the input
line and the status bar. The root model owns the header, the particle layer
and the landing screen; it forwards messages here while the chat screen is
active and reacts to the messages this package emits (GoHomeMsg,
ToggleThemeMsg).

# Requests

Enter sends the input through a Sender as a tea.Cmd with its own deadline.
Only one request runs at a time: the input is blurred until the ResponseMsg
arrives, and Esc cancels it. Answers are written back to the session they
were asked in, even if the user has switched sessions since.

# Files

  - model.go: Model, Options and accessors
  - update.go: message and key handling
  - view.go: layout
  - keys.go: key bindings
  - messages.go: tea.Msg types
  - cancel.go: mutex-guarded cancel function
*/
package chat
