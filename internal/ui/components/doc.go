// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the ictchat TUI.

Every component takes a *styles.Theme and is re-themed in place when the user
toggles between dark and light.

# Landing

Hero (hero.go) - brand title, tagline, the audience/topic/language selectors
and the call to action. Block and Offset let the caller draw it over the
particle field.

# Chat screen

Header (header.go) - brand, live indicator and active theme.
Sidebar (sidebar.go) - session history; opening and closing are animated
with a harmonica spring.
MessageBubble (message.go) - user and assistant bubbles. Assistant answers
are rendered as Markdown with glamour and followed by their sources.
StatusBar (statusbar.go) - request status, session count and key hints.
HighlightJSON (rawview.go) - the last raw webhook body, highlighted by Chroma.

# Feedback

ToastManager (toast.go) - auto-dismissing notifications in the bottom-right
corner.
*/
package components
