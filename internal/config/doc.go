// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ictchat.
//
// TOML, YAML and JSON files are supported, with defaults, environment
// variable overrides, validation and a live file watcher.
//
// # Key Types
//
//   - Config: the complete configuration
//   - GatewayConfig: chat webhook URL and timeout
//   - TelemetryConfig: optional event-log webhook
//   - UIConfig: theme, frame rate and layout toggles
//   - StorageConfig: session store backend
//   - Watcher: reloads the config when its file changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ICTCHAT_*)
//   - ~/.ictchat/config.toml
//   - ~/.ictchat/config.yaml
//   - ~/.ictchat/config.json
//   - Built-in defaults
//
// ICTCHAT_HOME moves the whole directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Gateway.Timeout()
package config
