// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command handler.
//
// Usage:
//
//	ictchat config show
//	ictchat config get ui.theme
//	ictchat config set ui.theme light
//	ictchat config path

package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/jeranaias/ictchat/internal/config"
)

// HandleConfig handles "ictchat config".
func HandleConfig(args Args, out io.Writer) error {
	p := NewArgParser(args.Raw)
	sub := strings.ToLower(p.Subcommand())

	switch sub {
	case "", "show":
		return configShow(args, out)
	case "get":
		return configGet(args, p.Positional(1), out)
	case "set":
		if p.PositionalCount() < 3 {
			return NewValidationErrorWithExample("config set", "", "a key and a value are required", "ictchat config set ui.theme light")
		}
		return configSet(args, p.Positional(1), JoinPositionalArgs(p, 2), out)
	case "path":
		return configPath(args, out)
	case "keys":
		for _, k := range config.AllKeys() {
			fmt.Fprintln(out, k)
		}
		return nil
	default:
		return NewValidationErrorWithExample("config subcommand", sub, "must be show, get, set, path or keys", "ictchat config show")
	}
}

func configShow(args Args, out io.Writer) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	if args.JSON {
		safe := cfg.Clone()
		safe.Storage.RedisURL = redactedRedisURL(cfg)
		return NewJSONResponse("config show", safe).Write(out)
	}
	fmt.Fprintln(out, TitleStyle.Render("Configuration"))
	for _, key := range config.AllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		if key == "storage.redis_url" {
			v = redactedRedisURL(cfg)
		}
		fmt.Fprintf(out, "%s%v\n", RenderLabel(key), v)
	}
	return nil
}

// redactedRedisURL hides the Redis password.
func redactedRedisURL(cfg *config.Config) string {
	u, err := url.Parse(cfg.Storage.RedisURL)
	if err != nil || cfg.Storage.RedisURL == "" {
		return cfg.Storage.RedisURL
	}
	return u.Redacted()
}

func configGet(args Args, key string, out io.Writer) error {
	if key == "" {
		return NewValidationErrorWithExample("config key", "", "required", "ictchat config get ui.theme")
	}
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	v, err := cfg.Get(key)
	if err != nil {
		return NewValidationError("config key", key, err.Error())
	}
	if args.JSON {
		return NewJSONResponse("config get", ConfigValueData{Key: key, Value: v}).Write(out)
	}
	fmt.Fprintln(out, v)
	return nil
}

// configSet edits the file only, so environment overrides and global flags
// never leak into it.
func configSet(args Args, key, value string, out io.Writer) error {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return err
	}
	path := config.ActivePath(dir)

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadFile(cfg, path); err != nil {
			return NewCommandError("config", "set", "could not read "+path, err)
		}
	}
	cfg.SetDefaults()

	if err := cfg.Set(key, value); err != nil {
		return NewValidationError("config key", key, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTo(cfg, path); err != nil {
		return NewCommandError("config", "set", "could not save", err)
	}

	v, _ := cfg.Get(key)
	if args.JSON {
		return NewJSONResponse("config set", ConfigValueData{Key: key, Value: v, Path: path}).Write(out)
	}
	fmt.Fprintf(out, "%s %s = %v\n", SuccessStyle.Render("[OK]"), key, v)
	return nil
}

func configPath(args Args, out io.Writer) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path := config.ActivePath(dir)
	if args.JSON {
		return NewJSONResponse("config path", map[string]string{"path": path, "dir": dir}).Write(out)
	}
	fmt.Fprintln(out, path)
	return nil
}
