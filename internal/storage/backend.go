// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/ictchat/internal/config"
	"github.com/jeranaias/ictchat/internal/util"
)

// SessionsKey is the key the session list is stored under.
const SessionsKey = "ict_bd_chat_sessions"

// Default file names inside the config directory.
const (
	DefaultFileName   = "sessions.json"
	DefaultSQLiteName = "sessions.db"
)

// Backend is a minimal key-value store.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (data []byte, ok bool, err error)
	// Put replaces the value for key.
	Put(key string, data []byte) error
	// Close releases the backend.
	Close() error
}

var (
	// ErrBackendClosed is returned by operations on a closed backend.
	ErrBackendClosed = errors.New("storage backend closed")

	// ErrCorrupt marks stored bytes that could not be decoded.
	ErrCorrupt = errors.New("stored data is corrupt")
)

// OpenBackend builds the backend cfg selects. dir is the config directory
// and holds the file and sqlite stores unless cfg.Path says otherwise.
func OpenBackend(cfg config.StorageConfig, dir string) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dir, DefaultFileName)
		}
		return NewFileBackend(path), nil
	case config.BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dir, DefaultSQLiteName)
		}
		return NewSQLiteBackend(path)
	case config.BackendGData:
		return NewGDataBackend(GDataAppName)
	case config.BackendRedis:
		return NewRedisBackend(cfg.RedisURL, cfg.RedisKey)
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// =============================================================================
// MEMORY BACKEND
// =============================================================================

// MemoryBackend keeps values in a map.
type MemoryBackend struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false, ErrBackendClosed
	}
	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *MemoryBackend) Put(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendClosed
	}
	b.data[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileBackend stores a single JSON object mapping keys to values.
// Values must be JSON themselves; the session list always is.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a file backend at path. The file is created on the
// first Put.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (b *FileBackend) Put(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		// A damaged file is replaced rather than blocking every save.
		doc = make(map[string]rawJSON)
	}
	doc[key] = rawJSON(data)

	out, err := marshalDoc(doc)
	if err != nil {
		return err
	}
	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(b.path, out, 0600)
}

func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) read() (map[string]rawJSON, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]rawJSON), nil
		}
		return nil, err
	}
	return unmarshalDoc(data)
}
