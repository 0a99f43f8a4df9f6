// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second / 10
	}
	return time.Second / time.Duration(s.FPS)
}

// Spinner converts the config for bubbles/spinner.
func (s SpinnerConfig) Spinner() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Duration()}
}

// ProcessingSpinner shows while a question is in flight.
var ProcessingSpinner = SpinnerConfig{
	Frames: []string{"●∙∙", "∙●∙", "∙∙●", "∙●∙"},
	FPS:    6,
}

// ASCIISpinner is used when the terminal cannot draw Unicode.
var ASCIISpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// LiveDot pulses next to "System Live" in the header.
var LiveDot = SpinnerConfig{
	Frames: []string{"●", "●", "●", "○"},
	FPS:    2,
}
