// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnSave(t *testing.T) {
	dir := isolate(t)

	changes := make(chan *Config, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	require.NoError(t, err)
	w.Start()
	defer w.Close()

	cfg := Default()
	cfg.UI.Theme = ThemeLight
	require.NoError(t, SaveTo(cfg, filepath.Join(dir, FileTOML)))

	select {
	case got := <-changes:
		assert.Equal(t, ThemeLight, got.UI.Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after config save")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := isolate(t)

	changes := make(chan struct{}, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func(*Config, error) {
		changes <- struct{}{}
	})
	require.NoError(t, err)
	w.Start()
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sessions.json"), []byte("[]"), 0600))

	select {
	case <-changes:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := isolate(t)

	errs := make(chan error, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func(_ *Config, err error) {
		errs <- err
	})
	require.NoError(t, err)
	w.Start()
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileTOML), []byte("[ui]\ntheme = \"sepia\"\n"), 0600))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("no callback for invalid config")
	}
}

func TestNewWatcher_NilCallback(t *testing.T) {
	_, err := NewWatcher(t.TempDir(), 0, nil)
	assert.Error(t, err)
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, IsConfigFile("/home/x/.ictchat/config.toml"))
	assert.True(t, IsConfigFile("config.yaml"))
	assert.False(t, IsConfigFile("/home/x/.ictchat/sessions.json"))
	assert.False(t, IsConfigFile(".config.toml.tmp-123"))
}
