// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/ictchat/internal/config"
)

const (
	// DefaultEvent is used when an Event has no name.
	DefaultEvent = "log"

	// EventChatExchange records one completed question and answer.
	EventChatExchange = "chat_exchange"

	// AsyncTimeout bounds a fire-and-forget post.
	AsyncTimeout = 10 * time.Second

	// TimestampLayout is RFC 3339 with milliseconds.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Event is a single log entry. Empty strings are sent as null.
type Event struct {
	Name      string
	ChatID    string
	UserID    string
	Query     string
	Response  string
	Timestamp time.Time
	Metadata  map[string]any
}

// wireEvent is the webhook body.
type wireEvent struct {
	Event     string         `json:"event"`
	ChatID    *string        `json:"chat_id"`
	UserID    *string        `json:"user_id"`
	Query     *string        `json:"query"`
	Response  *string        `json:"response"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Logger posts events to a webhook. The zero value is disabled.
type Logger struct {
	enabled    bool
	url        string
	userID     string
	httpClient *http.Client
	now        func() time.Time

	wg sync.WaitGroup
}

// New creates a logger from the telemetry config section.
func New(cfg config.TelemetryConfig) *Logger {
	return &Logger{
		enabled:    cfg.Enabled,
		url:        strings.TrimSpace(cfg.URL),
		userID:     cfg.UserID,
		httpClient: &http.Client{Timeout: AsyncTimeout},
		now:        time.Now,
	}
}

// Enabled reports whether events are sent at all.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled && l.url != ""
}

// Payload builds the JSON body for ev.
func (l *Logger) Payload(ev Event) ([]byte, error) {
	name := ev.Name
	if name == "" {
		name = DefaultEvent
	}
	userID := ev.UserID
	if userID == "" {
		userID = l.userID
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = l.now()
	}
	var meta map[string]any
	if len(ev.Metadata) > 0 {
		meta = ev.Metadata
	}

	return json.Marshal(wireEvent{
		Event:     name,
		ChatID:    nullable(ev.ChatID),
		UserID:    nullable(userID),
		Query:     nullable(ev.Query),
		Response:  nullable(ev.Response),
		Timestamp: ts.UTC().Format(TimestampLayout),
		Metadata:  meta,
	})
}

// Log posts ev and reports whether the webhook answered 2xx. It never
// returns an error; failures are logged. A disabled logger returns false
// without sending.
func (l *Logger) Log(ctx context.Context, ev Event) bool {
	if !l.Enabled() {
		return false
	}

	body, err := l.Payload(ev)
	if err != nil {
		log.Printf("telemetry: encode event: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("telemetry: build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		log.Printf("telemetry: post event: %v", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("telemetry: webhook answered %s", resp.Status)
		return false
	}
	return true
}

// LogAsync posts ev in the background with AsyncTimeout.
func (l *Logger) LogAsync(ev Event) {
	if !l.Enabled() {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now()
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("telemetry: recovered from panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), AsyncTimeout)
		defer cancel()
		l.Log(ctx, ev)
	}()
}

// Wait blocks until background posts finish or ctx is done.
func (l *Logger) Wait(ctx context.Context) {
	if l == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
