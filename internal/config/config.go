// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// CurrentVersion is written into new config files.
	CurrentVersion = "1"

	// DefaultChatURL is the production chat webhook.
	DefaultChatURL = "https://n8n-1-14-2.onrender.com/webhook/1168bb38-0128-4e52-9f93-a7538c9e1007/chat"

	// DefaultTelemetryURL is the event-log webhook.
	DefaultTelemetryURL = "https://n8n-1-14-2.onrender.com/webhook/29b2f437-12ff-428f-99ce-855481f57a7c"

	// DefaultTimeoutSecs bounds one chat request. Agent chains can run long.
	DefaultTimeoutSecs = 120

	// MaxTimeoutSecs is the largest accepted gateway timeout.
	MaxTimeoutSecs = 600

	// DefaultFPS is the particle frame rate.
	DefaultFPS = 30

	// DefaultRedisKey holds the session list in Redis.
	DefaultRedisKey = "ictchat:sessions"
)

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendGData  = "gdata"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config file names, in load order.
const (
	FileTOML = "config.toml"
	FileYAML = "config.yaml"
	FileJSON = "config.json"
)

// FileNames lists the config files Load looks for, in order.
var FileNames = []string{FileTOML, FileYAML, FileJSON}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ictchat configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	Gateway   GatewayConfig    `toml:"gateway" json:"gateway" yaml:"gateway"`
	Telemetry TelemetryConfig  `toml:"telemetry" json:"telemetry" yaml:"telemetry"`
	Chat      model.ChatConfig `toml:"chat" json:"chat" yaml:"chat"`
	UI        UIConfig         `toml:"ui" json:"ui" yaml:"ui"`
	Storage   StorageConfig    `toml:"storage" json:"storage" yaml:"storage"`
}

// GatewayConfig configures the chat webhook.
type GatewayConfig struct {
	// ChatURL receives every chat request.
	ChatURL string `toml:"chat_url" json:"chat_url" yaml:"chat_url"`
	// TimeoutSecs aborts a request that has not completed.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// TelemetryConfig configures the best-effort event log.
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	URL     string `toml:"url" json:"url" yaml:"url"`
	// UserID is sent as user_id; empty sends null.
	UserID string `toml:"user_id" json:"user_id" yaml:"user_id"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (follow the terminal background).
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// FPS is the particle frame rate.
	FPS int `toml:"fps" json:"fps" yaml:"fps"`
	// Particles draws the pointer-reactive background.
	Particles bool `toml:"particles" json:"particles" yaml:"particles"`
	// Sidebar shows the session history when the chat opens.
	Sidebar bool `toml:"sidebar" json:"sidebar" yaml:"sidebar"`
	// Markdown renders assistant answers with glamour.
	Markdown bool `toml:"markdown" json:"markdown" yaml:"markdown"`
}

// StorageConfig selects where sessions are kept.
type StorageConfig struct {
	// Backend is one of file, sqlite, gdata, redis, memory.
	Backend string `toml:"backend" json:"backend" yaml:"backend"`
	// Path overrides the file or sqlite location. Empty uses the config dir.
	Path string `toml:"path" json:"path" yaml:"path"`
	// RedisURL is required for the redis backend.
	RedisURL string `toml:"redis_url" json:"redis_url" yaml:"redis_url"`
	// RedisKey is the key holding the session list.
	RedisKey string `toml:"redis_key" json:"redis_key" yaml:"redis_key"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Gateway: GatewayConfig{
			ChatURL:     DefaultChatURL,
			TimeoutSecs: DefaultTimeoutSecs,
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			URL:     DefaultTelemetryURL,
		},
		Chat: model.DefaultChatConfig(),
		UI: UIConfig{
			Theme:     ThemeDark,
			FPS:       DefaultFPS,
			Particles: true,
			Sidebar:   true,
			Markdown:  true,
		},
		Storage: StorageConfig{
			Backend:  BackendFile,
			RedisKey: DefaultRedisKey,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the ictchat directory: $ICTCHAT_HOME or ~/.ictchat.
func ConfigDir() (string, error) {
	if dir := os.Getenv("ICTCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ictchat"), nil
}

// EnsureConfigDir creates the config directory.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// ActivePath returns the config file Load would read from dir, or the TOML
// path when none exists yet.
func ActivePath(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, FileTOML)
}

// IsConfigFile reports whether path names one of the config files.
func IsConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range FileNames {
		if base == name {
			return true
		}
	}
	return false
}

// ensureSecurePermissions tightens a config file to 0600.
// SECURITY: The file can carry a Redis URL with a password.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration from ConfigDir.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	return LoadDir(dir)
}

// LoadDir loads the first config file found in dir (TOML, then YAML, then
// JSON), applies environment overrides and validates. With no file, the
// defaults are used.
func LoadDir(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads one file, picking the decoder by extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile decodes path over cfg. Keys absent from the file keep cfg's values.
// SECURITY: Checks and fixes file permissions on load.
func LoadFile(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML file: %w", err)
		}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTo writes cfg to path in the format its extension names.
// SECURITY: Files are written with 0600 permissions.
// RELIABILITY: Atomic write with fsync prevents a half-written config.
func SaveTo(cfg *Config, path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = encodeTOML(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func encodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# ictchat configuration file\n")
	buf.WriteString("# Generated by ictchat - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := validateHTTPURL(c.Gateway.ChatURL); err != nil {
		errs = append(errs, ValidationError{Field: "gateway.chat_url", Message: err.Error()})
	}
	if c.Gateway.TimeoutSecs < 1 || c.Gateway.TimeoutSecs > MaxTimeoutSecs {
		errs = append(errs, ValidationError{
			Field:   "gateway.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxTimeoutSecs, c.Gateway.TimeoutSecs),
		})
	}

	if c.Telemetry.Enabled {
		if err := validateHTTPURL(c.Telemetry.URL); err != nil {
			errs = append(errs, ValidationError{Field: "telemetry.url", Message: err.Error()})
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case ThemeDark, ThemeLight, ThemeAuto:
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.FPS < 1 || c.UI.FPS > 120 {
		errs = append(errs, ValidationError{
			Field:   "ui.fps",
			Message: fmt.Sprintf("must be between 1 and 120, got %d", c.UI.FPS),
		})
	}

	switch strings.ToLower(c.Storage.Backend) {
	case BackendFile, BackendSQLite, BackendGData, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, ValidationError{Field: "storage.redis_url", Message: "required for the redis backend"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, gdata, redis, memory", c.Storage.Backend),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", raw)
	}
	return nil
}

// SetDefaults fills fields a file set to their zero value.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if strings.TrimSpace(c.Gateway.ChatURL) == "" {
		c.Gateway.ChatURL = d.Gateway.ChatURL
	}
	if c.Gateway.TimeoutSecs == 0 {
		c.Gateway.TimeoutSecs = d.Gateway.TimeoutSecs
	}
	if strings.TrimSpace(c.Telemetry.URL) == "" {
		c.Telemetry.URL = d.Telemetry.URL
	}
	c.Chat = c.Chat.WithDefaults()
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.UI.FPS == 0 {
		c.UI.FPS = d.UI.FPS
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.RedisKey == "" {
		c.Storage.RedisKey = d.Storage.RedisKey
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies ICTCHAT_* environment variables:
//   - ICTCHAT_GATEWAY_URL: gateway.chat_url
//   - ICTCHAT_GATEWAY_TIMEOUT: gateway.timeout_secs
//   - ICTCHAT_TELEMETRY: telemetry.enabled
//   - ICTCHAT_TELEMETRY_URL: telemetry.url
//   - ICTCHAT_USER_ID: telemetry.user_id
//   - ICTCHAT_AUDIENCE, ICTCHAT_TOPIC, ICTCHAT_LANGUAGE: chat.*
//   - ICTCHAT_THEME: ui.theme
//   - ICTCHAT_PARTICLES: ui.particles
//   - ICTCHAT_STORAGE: storage.backend
//   - ICTCHAT_STORAGE_PATH: storage.path
//   - ICTCHAT_REDIS_URL: storage.redis_url
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ICTCHAT_GATEWAY_URL"); v != "" {
		c.Gateway.ChatURL = v
	}
	if v := os.Getenv("ICTCHAT_GATEWAY_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Gateway.TimeoutSecs = secs
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring ICTCHAT_GATEWAY_TIMEOUT=%q: %v\n", v, err)
		}
	}
	if v := os.Getenv("ICTCHAT_TELEMETRY"); v != "" {
		c.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("ICTCHAT_TELEMETRY_URL"); v != "" {
		c.Telemetry.URL = v
	}
	if v := os.Getenv("ICTCHAT_USER_ID"); v != "" {
		c.Telemetry.UserID = v
	}
	if v := os.Getenv("ICTCHAT_AUDIENCE"); v != "" {
		c.Chat.Audience = v
	}
	if v := os.Getenv("ICTCHAT_TOPIC"); v != "" {
		c.Chat.Topic = v
	}
	if v := os.Getenv("ICTCHAT_LANGUAGE"); v != "" {
		c.Chat.Language = v
	}
	if v := os.Getenv("ICTCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("ICTCHAT_PARTICLES"); v != "" {
		c.UI.Particles = parseBool(v)
	}
	if v := os.Getenv("ICTCHAT_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ICTCHAT_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ICTCHAT_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by dotted key, e.g. "ui.theme".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value by dotted key. String values are converted to the
// field's type. The result is not validated; call Validate afterwards.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName turns snake_case or kebab-case into a Go field name.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}

func setFieldValue(field reflect.Value, value interface{}) error {
	if s, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(s)
			return nil
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(n)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(s))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.IsValid() && val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// AllKeys returns every settable key in dot notation.
func AllKeys() []string {
	return []string{
		"version",
		"gateway.chat_url",
		"gateway.timeout_secs",
		"telemetry.enabled",
		"telemetry.url",
		"telemetry.user_id",
		"chat.audience",
		"chat.topic",
		"chat.language",
		"ui.theme",
		"ui.fps",
		"ui.particles",
		"ui.sidebar",
		"ui.markdown",
		"storage.backend",
		"storage.path",
		"storage.redis_url",
		"storage.redis_key",
	}
}

// Clone returns a copy. Config holds no reference types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as JSON for display.
// SECURITY: The Redis password is redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if u, err := url.Parse(safe.Storage.RedisURL); err == nil && safe.Storage.RedisURL != "" {
		safe.Storage.RedisURL = u.Redacted()
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
