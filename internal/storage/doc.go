// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for ictchat.
//
// The whole session list lives under one key and is rewritten on every
// mutation. Where that key lives is up to the Backend:
//
//   - file: a JSON file in the config directory (default)
//   - sqlite: a single-table key-value database
//   - gdata: the per-user application data directory
//   - redis: a shared server, so several terminals see the same history
//   - memory: nothing persists (tests and --ephemeral)
//
// # Usage
//
//	backend, err := storage.OpenBackend(cfg.Storage, dir)
//	if err != nil {
//	    return err
//	}
//	store, err := storage.Open(backend)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	session, err := store.Create()
package storage
