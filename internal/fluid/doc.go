// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fluid renders the pointer-reactive particle field drawn behind the
// ictchat screens.
//
// Moving the mouse sheds short-lived, glowing particles along its path. They
// drift with a fraction of the pointer's velocity, swell, fade in and out over
// their lifetime, and occasionally throw a spark.
//
// # Layers
//
//   - Field: the simulation. It holds the pointer state, the particle pool and the
//     physics, and it draws to any Surface. It has no terminal dependency and is
//     deterministic under an injected random source.
//   - Canvas: a Surface backed by terminal cells. Each cell holds two vertically
//     stacked samples rendered with the upper half block, blended in
//     "screen" (dark) or "source-over" (light) mode.
//   - Layer: the bubbletea component. It owns a Field and a Canvas, schedules
//     frames with tea.Tick, and consumes mouse and resize messages.
//
// # Lifecycle
//
// A Layer is tied to one theme. To change the theme, Dispose the layer and
// create a new one; stale frame messages carry the old layer's ID and are
// dropped. A terminal without color support gets an inert layer that
// schedules nothing and renders blank.
//
// # Coordinates
//
// The simulation runs in virtual pixels with CellWidth x CellHeight pixels per
// terminal cell, so particle sizes and speeds match a desktop viewport.
package fluid
