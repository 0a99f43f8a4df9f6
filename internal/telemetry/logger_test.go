// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ictchat/internal/config"
)

func enabledLogger(url string) *Logger {
	return New(config.TelemetryConfig{Enabled: true, URL: url})
}

func TestPayload_NullsAndDefaults(t *testing.T) {
	l := enabledLogger("http://example.com")
	l.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 15, 123456789, time.FixedZone("BST", 6*3600)) }

	data, err := l.Payload(Event{})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"event": "log",
		"chat_id": null,
		"user_id": null,
		"query": null,
		"response": null,
		"timestamp": "2025-03-01T03:30:15.123Z",
		"metadata": null
	}`, string(data))
}

func TestPayload_Fields(t *testing.T) {
	l := New(config.TelemetryConfig{Enabled: true, URL: "http://example.com", UserID: "u-1"})

	data, err := l.Payload(Event{
		Name:      EventChatExchange,
		ChatID:    "chat_1",
		Query:     "Hello",
		Response:  "Hi there!",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Metadata:  map[string]any{"topic": "ICT Policy"},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "chat_exchange", got["event"])
	assert.Equal(t, "chat_1", got["chat_id"])
	assert.Equal(t, "u-1", got["user_id"], "config user id fills the gap")
	assert.Equal(t, "Hello", got["query"])
	assert.Equal(t, "Hi there!", got["response"])
	assert.Equal(t, "2025-01-02T03:04:05.000Z", got["timestamp"])
	assert.Equal(t, map[string]any{"topic": "ICT Policy"}, got["metadata"])
}

func TestLog_Success(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok := enabledLogger(srv.URL).Log(context.Background(), Event{Name: "test", ChatID: "chat_1"})
	assert.True(t, ok)
	assert.Contains(t, string(body), `"chat_id":"chat_1"`)
}

func TestLog_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.False(t, enabledLogger(srv.URL).Log(context.Background(), Event{}))
}

func TestLog_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.False(t, enabledLogger(url).Log(context.Background(), Event{}))
}

func TestLog_Disabled(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	l := New(config.TelemetryConfig{Enabled: false, URL: srv.URL})
	assert.False(t, l.Enabled())
	assert.False(t, l.Log(context.Background(), Event{}))
	l.LogAsync(Event{})
	l.Wait(context.Background())
	assert.Equal(t, int32(0), hits.Load())

	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled())
}

func TestLogAsync(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev map[string]any
		_ = json.NewDecoder(r.Body).Decode(&ev)
		got <- ev["event"].(string)
	}))
	defer srv.Close()

	l := enabledLogger(srv.URL)
	l.LogAsync(Event{Name: EventChatExchange})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l.Wait(ctx)

	select {
	case name := <-got:
		assert.Equal(t, EventChatExchange, name)
	default:
		t.Fatal("async event not delivered")
	}
}
