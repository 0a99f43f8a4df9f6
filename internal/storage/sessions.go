// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jeranaias/ictchat/internal/model"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore holds the session list, newest first, and persists it through
// a Backend after every change.
type SessionStore struct {
	mu       sync.Mutex
	backend  Backend
	sessions []model.Session
	now      func() time.Time
}

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithClock overrides time.Now for IDs and timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *SessionStore) { s.now = now }
}

// Open loads the session list from backend. Data that cannot be decoded is
// logged and discarded; the store then starts empty.
func Open(backend Backend, opts ...StoreOption) (*SessionStore, error) {
	s := &SessionStore{
		backend:  backend,
		sessions: []model.Session{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := backend.Get(SessionsKey)
	switch {
	case errors.Is(err, ErrCorrupt):
		log.Printf("session store: discarding unreadable data: %v", err)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load sessions: %w", err)
	case !ok:
		return s, nil
	}

	var sessions []model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Printf("session store: discarding malformed session list: %v", err)
		return s, nil
	}
	for i := range sessions {
		if sessions[i].Messages == nil {
			sessions[i].Messages = []model.Message{}
		}
	}
	s.sessions = sessions
	return s, nil
}

// Close closes the backend.
func (s *SessionStore) Close() error {
	return s.backend.Close()
}

// List returns copies of all sessions, newest first.
func (s *SessionStore) List() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Len returns the number of sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Get returns a copy of the session with id.
func (s *SessionStore) Get(id string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Session{}, ErrSessionNotFound
	}
	return s.sessions[i].Clone(), nil
}

// First returns the newest session. ok is false when there are none.
func (s *SessionStore) First() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) == 0 {
		return model.Session{}, false
	}
	return s.sessions[0].Clone(), true
}

// Create prepends a new empty session and persists the list.
func (s *SessionStore) Create() (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := model.NewSession(now)
	// IDs are millisecond timestamps; step forward until unique.
	for s.indexOf(sess.ID) >= 0 {
		now = now.Add(time.Millisecond)
		sess.ID = model.SessionID(now)
	}

	prev := s.sessions
	s.sessions = append([]model.Session{sess}, s.sessions...)
	if err := s.persist(); err != nil {
		s.sessions = prev
		return model.Session{}, err
	}
	return sess.Clone(), nil
}

// UpdateMessages replaces the messages of session id, stamps LastUpdated and
// derives the title from the first user message. The session keeps its
// position in the list.
func (s *SessionStore) UpdateMessages(id string, messages []model.Message) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Session{}, ErrSessionNotFound
	}

	prev := s.sessions[i]
	updated := model.Session{
		ID:          prev.ID,
		Title:       prev.Title,
		Messages:    append([]model.Message{}, messages...),
		LastUpdated: s.now(),
	}
	updated.DeriveTitle()

	s.sessions[i] = updated
	if err := s.persist(); err != nil {
		s.sessions[i] = prev
		return model.Session{}, err
	}
	return updated.Clone(), nil
}

// Delete removes session id. current is the session the caller has open; the
// returned ID is what should be open afterwards: current itself when another
// session was deleted, otherwise the first remaining session, or "" when
// none remain.
func (s *SessionStore) Delete(id, current string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return current, ErrSessionNotFound
	}

	prev := s.sessions
	next := make([]model.Session, 0, len(s.sessions)-1)
	next = append(next, s.sessions[:i]...)
	next = append(next, s.sessions[i+1:]...)
	s.sessions = next
	if err := s.persist(); err != nil {
		s.sessions = prev
		return current, err
	}

	if id != current {
		return current, nil
	}
	if len(s.sessions) == 0 {
		return "", nil
	}
	return s.sessions[0].ID, nil
}

// Clear removes every session.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sessions
	s.sessions = []model.Session{}
	if err := s.persist(); err != nil {
		s.sessions = prev
		return err
	}
	return nil
}

// Neighbor returns the ID delta positions away from id, clamped to the list.
// It backs next/previous session navigation.
func (s *SessionStore) Neighbor(id string, delta int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || len(s.sessions) == 0 {
		return "", false
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j >= len(s.sessions) {
		j = len(s.sessions) - 1
	}
	return s.sessions[j].ID, j != i
}

// indexOf must be called with mu held.
func (s *SessionStore) indexOf(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *SessionStore) persist() error {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := s.backend.Put(SessionsKey, data); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &SessionError{Message: "session not found"}

// SessionError represents a session-related error.
type SessionError struct {
	Message string
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing session errors.
func (e *SessionError) Is(target error) bool {
	t, ok := target.(*SessionError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
