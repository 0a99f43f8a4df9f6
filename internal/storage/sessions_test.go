// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ictchat/internal/model"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

// frozenClock always returns the same instant.
func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newMemStore(t *testing.T, opts ...StoreOption) (*SessionStore, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	opts = append([]StoreOption{WithClock(stepClock(epoch))}, opts...)
	store, err := Open(backend, opts...)
	require.NoError(t, err)
	return store, backend
}

// =============================================================================
// SESSION STORE TESTS
// =============================================================================

func TestSessionStore_CreatePrepends(t *testing.T) {
	store, _ := newMemStore(t)

	a, err := store.Create()
	require.NoError(t, err)
	b, err := store.Create()
	require.NoError(t, err)

	assert.Equal(t, model.DefaultSessionTitle, a.Title)
	assert.Empty(t, a.Messages)
	assert.True(t, strings.HasPrefix(a.ID, "chat_"))
	assert.Equal(t, model.SessionID(epoch), a.ID)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest first")
	assert.Equal(t, a.ID, list[1].ID)

	first, ok := store.First()
	require.True(t, ok)
	assert.Equal(t, b.ID, first.ID)
}

func TestSessionStore_CreateResolvesIDCollision(t *testing.T) {
	store, _ := newMemStore(t, WithClock(frozenClock(epoch)))

	a, err := store.Create()
	require.NoError(t, err)
	b, err := store.Create()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, model.SessionID(epoch.Add(time.Millisecond)), b.ID)
}

func TestSessionStore_UpdateMessagesDerivesTitle(t *testing.T) {
	store, _ := newMemStore(t)
	sess, err := store.Create()
	require.NoError(t, err)

	question := "What services does ICT Bangladesh provide to startups?"
	msgs := []model.Message{
		model.NewUserMessage(question),
		model.NewAssistantMessage("Several.", []model.Source{{URI: "https://ictd.gov.bd", Title: "ICT Division"}}),
	}

	updated, err := store.UpdateMessages(sess.ID, msgs)
	require.NoError(t, err)

	assert.Equal(t, "What services does ICT Banglad...", updated.Title)
	assert.Len(t, updated.Messages, 2)
	assert.True(t, updated.LastUpdated.After(sess.LastUpdated))

	// A later question does not retitle the session.
	msgs = append(msgs, model.NewUserMessage("And for students?"))
	updated, err = store.UpdateMessages(sess.ID, msgs)
	require.NoError(t, err)
	assert.Equal(t, "What services does ICT Banglad...", updated.Title)
}

func TestSessionStore_UpdateMessagesShortTitle(t *testing.T) {
	store, _ := newMemStore(t)
	sess, _ := store.Create()

	updated, err := store.UpdateMessages(sess.ID, []model.Message{model.NewUserMessage("Hello")})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)
}

func TestSessionStore_UpdateMessagesKeepsOrder(t *testing.T) {
	store, _ := newMemStore(t)
	older, _ := store.Create()
	newer, _ := store.Create()

	_, err := store.UpdateMessages(older.ID, []model.Message{model.NewUserMessage("hi")})
	require.NoError(t, err)

	list := store.List()
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestSessionStore_UpdateMessagesNotFound(t *testing.T) {
	store, _ := newMemStore(t)
	_, err := store.UpdateMessages("chat_0", nil)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionStore_DeleteCurrentSelectsFirst(t *testing.T) {
	store, _ := newMemStore(t)
	a, _ := store.Create()
	b, _ := store.Create()
	c, _ := store.Create()

	next, err := store.Delete(b.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, next, "first remaining session")

	next, err = store.Delete(c.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, next, "deleting another session keeps the current one")

	next, err = store.Delete(a.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "", next, "no sessions left")
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_DeleteNotFound(t *testing.T) {
	store, _ := newMemStore(t)
	a, _ := store.Create()

	next, err := store.Delete("chat_missing", a.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, a.ID, next)
}

func TestSessionStore_Clear(t *testing.T) {
	store, backend := newMemStore(t)
	store.Create()
	store.Create()

	require.NoError(t, store.Clear())
	assert.Empty(t, store.List())

	data, ok, err := backend.Get(SessionsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(data))
}

func TestSessionStore_Neighbor(t *testing.T) {
	store, _ := newMemStore(t)
	a, _ := store.Create()
	b, _ := store.Create()
	c, _ := store.Create()
	// list: c, b, a

	id, moved := store.Neighbor(b.ID, 1)
	assert.True(t, moved)
	assert.Equal(t, a.ID, id)

	id, moved = store.Neighbor(b.ID, -1)
	assert.True(t, moved)
	assert.Equal(t, c.ID, id)

	id, moved = store.Neighbor(c.ID, -1)
	assert.False(t, moved)
	assert.Equal(t, c.ID, id)

	_, moved = store.Neighbor("chat_missing", 1)
	assert.False(t, moved)
}

func TestSessionStore_ListReturnsCopies(t *testing.T) {
	store, _ := newMemStore(t)
	sess, _ := store.Create()
	store.UpdateMessages(sess.ID, []model.Message{model.NewUserMessage("original")})

	list := store.List()
	list[0].Messages[0].Content = "mutated"
	list[0].Title = "mutated"

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Messages[0].Content)
	assert.Equal(t, "original", got.Title)
}

func TestSessionStore_PersistsAcrossOpen(t *testing.T) {
	backend := NewMemoryBackend()
	store, err := Open(backend, WithClock(stepClock(epoch)))
	require.NoError(t, err)

	sess, _ := store.Create()
	store.UpdateMessages(sess.ID, []model.Message{
		model.NewUserMessage("Hello"),
		model.NewAssistantMessage("Hi there!", []model.Source{{URI: "https://bcc.gov.bd", Title: "BCC"}}),
	})

	reopened, err := Open(backend)
	require.NoError(t, err)
	got, err := reopened.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Hi there!", got.Messages[1].Content)
	assert.Equal(t, []model.Source{{URI: "https://bcc.gov.bd", Title: "BCC"}}, got.Messages[1].Sources)
}

func TestOpen_MalformedDataGivesEmptyList(t *testing.T) {
	for _, data := range []string{"not json", `{"id":"x"}`, "[1,2,3"} {
		backend := NewMemoryBackend()
		require.NoError(t, backend.Put(SessionsKey, []byte(data)))

		store, err := Open(backend)
		require.NoError(t, err, data)
		assert.Empty(t, store.List(), data)
	}
}

// failingBackend fails every Put.
type failingBackend struct{ *MemoryBackend }

func (b *failingBackend) Put(string, []byte) error { return errors.New("disk full") }

func TestSessionStore_FailedPersistRollsBack(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend()}
	store, err := Open(backend)
	require.NoError(t, err)

	_, err = store.Create()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, store.Len())
}

// =============================================================================
// BACKEND TESTS
// =============================================================================

// exerciseBackend runs the contract every backend must satisfy.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()

	_, ok, err := b.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put("k", []byte(`[{"id":"chat_1"}]`)))
	data, ok, err := b.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"chat_1"}]`, string(data))

	require.NoError(t, b.Put("k", []byte(`[]`)))
	data, ok, err = b.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(data))
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	exerciseBackend(t, b)

	require.NoError(t, b.Close())
	_, _, err := b.Get("k")
	assert.ErrorIs(t, err, ErrBackendClosed)
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	b := NewFileBackend(path)
	exerciseBackend(t, b)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileBackend_CorruptFileDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0600))

	b := NewFileBackend(path)
	_, _, err := b.Get(SessionsKey)
	assert.ErrorIs(t, err, ErrCorrupt)

	store, err := Open(b)
	require.NoError(t, err)
	assert.Empty(t, store.List())

	// The next save replaces the damaged file.
	_, err = store.Create()
	require.NoError(t, err)
	reopened, err := Open(NewFileBackend(path))
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultSQLiteName)
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
	assert.Equal(t, path, b.Path())
}

func TestSQLiteBackend_SessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultSQLiteName)
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)

	store, err := Open(b, WithClock(stepClock(epoch)))
	require.NoError(t, err)
	sess, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	b2, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	reopened, err := Open(b2)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSessionTitle, got.Title)
}

func TestGDataBackend(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))

	b, err := NewGDataBackend("ictchat_test")
	if err != nil {
		t.Skipf("app data store unavailable: %v", err)
	}
	exerciseBackend(t, b)
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("ICTCHAT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ICTCHAT_TEST_REDIS_URL not set")
	}
	b, err := NewRedisBackend(url, "ictchat_test:"+strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
}

func TestNewRedisBackend_BadURL(t *testing.T) {
	_, err := NewRedisBackend("not-a-redis-url", "")
	assert.Error(t, err)
}
