// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"

	"github.com/jeranaias/ictchat/internal/util"
)

const (
	// DefaultSessionTitle marks a session whose title has not been derived yet.
	DefaultSessionTitle = "New Discussion"

	// TitleMaxRunes is how much of the first question becomes the title.
	TitleMaxRunes = 30

	// SessionIDPrefix prefixes every session ID.
	SessionIDPrefix = "chat_"
)

// Session is one conversation in the history sidebar.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewSession creates an empty session. The ID encodes the creation time in
// milliseconds, so two sessions created in the same millisecond collide;
// the store resolves that.
func NewSession(now time.Time) Session {
	return Session{
		ID:          SessionID(now),
		Title:       DefaultSessionTitle,
		Messages:    []Message{},
		LastUpdated: now,
	}
}

// SessionID formats the session ID for a creation time.
func SessionID(t time.Time) string {
	return SessionIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// DeriveTitle replaces a placeholder title with the start of the first user
// message. A title that was already derived is left alone.
func (s *Session) DeriveTitle() {
	if s.Title != DefaultSessionTitle && s.Title != "" {
		return
	}
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			s.Title = util.ClipRunes(m.Content, TitleMaxRunes)
			return
		}
	}
}

// DisplayTitle returns the title to show in lists.
func (s Session) DisplayTitle() string {
	if s.Title == "" {
		return "Untitled Chat"
	}
	return s.Title
}

// LastAssistant returns the most recent assistant message, if any.
func (s Session) LastAssistant() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy so callers can mutate it without touching the
// store's list.
func (s Session) Clone() Session {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if m.Sources != nil {
			m.Sources = append([]Source(nil), m.Sources...)
		}
		out.Messages[i] = m
	}
	return out
}
