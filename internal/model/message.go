// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/ictchat/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "ICT AI"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a citation link attached to an assistant answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Label returns the title, or the URI when the gateway sent no title.
func (s Source) Label() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return s.URI
}

// WebURI returns the URI when it is an absolute http or https URL with a
// host, and "" otherwise. Only a WebURI may be rendered as a clickable link.
func (s Source) WebURI() string {
	u, err := url.Parse(s.URI)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return s.URI
	}
	return ""
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn of a chat session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Sources   []Source  `json:"sources,omitempty"`
}

// NewMessage creates a message stamped with a fresh ID and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message carrying its citations.
func NewAssistantMessage(content string, sources []Source) Message {
	msg := NewMessage(RoleAssistant, content)
	if len(sources) > 0 {
		msg.Sources = append([]Source(nil), sources...)
	}
	return msg
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// HasSources reports whether an assistant message carries citations.
func (m Message) HasSources() bool {
	return m.Role == RoleAssistant && len(m.Sources) > 0
}

// Preview returns a single-line preview of the content.
func (m Message) Preview(maxRunes int) string {
	line := strings.Join(strings.Fields(m.Content), " ")
	return util.ClipRunes(line, maxRunes)
}
