// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

// GDataAppName names the application data directory.
const GDataAppName = "ictchat"

// gdataObject groups every key the backend writes.
const gdataObject = "store"

// GDataBackend keeps values in the platform's per-user application data
// location (XDG data dir on Linux, AppData on Windows).
type GDataBackend struct {
	m *gdata.Manager
}

// NewGDataBackend opens the data store for appName.
func NewGDataBackend(appName string) (*GDataBackend, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open app data store: %w", err)
	}
	return &GDataBackend{m: m}, nil
}

func (b *GDataBackend) Get(key string) ([]byte, bool, error) {
	if !b.m.ObjectPropExists(gdataObject, key) {
		return nil, false, nil
	}
	data, err := b.m.LoadObjectProp(gdataObject, key)
	if err != nil {
		return nil, false, fmt.Errorf("app data get %s: %w", key, err)
	}
	return data, true, nil
}

func (b *GDataBackend) Put(key string, data []byte) error {
	if err := b.m.SaveObjectProp(gdataObject, key, data); err != nil {
		return fmt.Errorf("app data put %s: %w", key, err)
	}
	return nil
}

func (b *GDataBackend) Close() error { return nil }
