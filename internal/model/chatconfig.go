// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// Defaults applied to any empty ChatConfig field before sending.
const (
	DefaultAudience = "Student"
	DefaultTopic    = "Training Courses"
	DefaultLanguage = "English"
)

// Selector options offered on the landing screen.
var (
	AudienceOptions = []string{"Citizen", "Entrepreneur", "Developer", "Govt Official"}
	TopicOptions    = []string{"e-Governance", "Cybersecurity", "ICT Policy", "Infrastructure"}
	LanguageOptions = []string{"English", "Bengali", "Arabic", "French"}
)

// ChatConfig scopes the assistant's answers. It travels with every request.
type ChatConfig struct {
	Audience string `json:"audience" toml:"audience" yaml:"audience"`
	Topic    string `json:"topic" toml:"topic" yaml:"topic"`
	Language string `json:"language" toml:"language" yaml:"language"`
}

// DefaultChatConfig returns the configuration a fresh install starts with.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Audience: DefaultAudience,
		Topic:    DefaultTopic,
		Language: DefaultLanguage,
	}
}

// WithDefaults fills empty (or blank) fields with the defaults.
func (c ChatConfig) WithDefaults() ChatConfig {
	if strings.TrimSpace(c.Audience) == "" {
		c.Audience = DefaultAudience
	}
	if strings.TrimSpace(c.Topic) == "" {
		c.Topic = DefaultTopic
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = DefaultLanguage
	}
	return c
}

// CycleOption returns the option after (delta > 0) or before (delta < 0)
// current, wrapping around. A value not in options starts from the first entry.
func CycleOption(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}
