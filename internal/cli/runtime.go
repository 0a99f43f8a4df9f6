// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Shared setup for commands that talk to the gateway or the
// session store.

package cli

import (
	"context"
	"time"

	"github.com/jeranaias/ictchat/internal/config"
	"github.com/jeranaias/ictchat/internal/gateway"
	"github.com/jeranaias/ictchat/internal/storage"
	"github.com/jeranaias/ictchat/internal/telemetry"
)

// telemetryFlushTimeout bounds how long Close waits for queued events.
const telemetryFlushTimeout = 3 * time.Second

// Runtime bundles the configured services a command needs.
type Runtime struct {
	Config    *config.Config
	Dir       string
	Store     *storage.SessionStore
	Client    *gateway.Client
	Telemetry *telemetry.Logger
}

// ApplyGlobalFlags folds --theme, --storage, --ephemeral and --no-particles
// into cfg and revalidates it.
func ApplyGlobalFlags(cfg *config.Config, args Args) error {
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	if args.Storage != "" {
		cfg.Storage.Backend = args.Storage
	}
	if args.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if args.NoParticles {
		cfg.UI.Particles = false
	}
	return cfg.Validate()
}

// LoadConfig loads the configuration and applies the global flags.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := ApplyGlobalFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenRuntime loads config and opens the store, gateway client and
// telemetry logger. Callers must Close it.
func OpenRuntime(args Args) (*Runtime, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	return NewRuntime(cfg)
}

// NewRuntime opens the services described by cfg.
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, err
	}

	backend, err := storage.OpenBackend(cfg.Storage, dir)
	if err != nil {
		return nil, NewCommandError("storage", "open", cfg.Storage.Backend, err)
	}
	store, err := storage.Open(backend)
	if err != nil {
		_ = backend.Close()
		return nil, NewCommandError("storage", "load", cfg.Storage.Backend, err)
	}

	client := gateway.New(cfg.Gateway.ChatURL,
		gateway.WithTimeout(cfg.Gateway.Timeout()),
		gateway.WithVersion(Version),
	)

	return &Runtime{
		Config:    cfg,
		Dir:       dir,
		Store:     store,
		Client:    client,
		Telemetry: telemetry.New(cfg.Telemetry),
	}, nil
}

// StorageName returns the backend name for status displays.
func (r *Runtime) StorageName() string {
	if r.Config.Storage.Backend == "" {
		return config.BackendFile
	}
	return r.Config.Storage.Backend
}

// Close flushes telemetry and closes the store.
func (r *Runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	r.Telemetry.Wait(ctx)
	return r.Store.Close()
}
