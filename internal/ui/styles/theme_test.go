// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"
)

func TestNewTheme_Palettes(t *testing.T) {
	dark := NewTheme(true)
	if dark.Name() != "dark" {
		t.Errorf("Name() = %q, want dark", dark.Name())
	}
	if dark.Palette.Background != "#000000" {
		t.Errorf("dark background = %v, want #000000", dark.Palette.Background)
	}

	light := NewTheme(false)
	if light.Name() != "light" {
		t.Errorf("Name() = %q, want light", light.Name())
	}
	if light.Palette.Background != "#FAFAFA" {
		t.Errorf("light background = %v, want #FAFAFA", light.Palette.Background)
	}
}

func TestResolveDark(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"dark", true},
		{"DARK", true},
		{"light", false},
		{" Light ", false},
		{"", true},
		{"unknown", true},
	}
	for _, tt := range tests {
		if got := ResolveDark(tt.name); got != tt.want {
			t.Errorf("ResolveDark(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSpinnerConfig(t *testing.T) {
	if got := ProcessingSpinner.Duration(); got != time.Second/6 {
		t.Errorf("Duration() = %v, want %v", got, time.Second/6)
	}
	if got := (SpinnerConfig{}).Duration(); got != time.Second/10 {
		t.Errorf("zero FPS Duration() = %v, want %v", got, time.Second/10)
	}

	s := ASCIISpinner.Spinner()
	if len(s.Frames) != 4 || s.FPS != time.Second/10 {
		t.Errorf("Spinner() = %+v", s)
	}
}

func TestThemeStylesRender(t *testing.T) {
	for _, dark := range []bool{true, false} {
		th := NewTheme(dark)
		if out := th.HeroTitle.Render("ICT Bangladesh AI"); out == "" {
			t.Errorf("dark=%v: HeroTitle rendered empty", dark)
		}
		if out := th.ToastError.Render("boom"); out == "" {
			t.Errorf("dark=%v: ToastError rendered empty", dark)
		}
	}
}
