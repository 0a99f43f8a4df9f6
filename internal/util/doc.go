// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across ictchat.
//
// # Key Functions
//
// String Utilities:
//   - ClipRunes: keep the first N characters and mark the cut with "..."
//   - TruncateWidth: cut to a terminal display width (CJK aware)
//   - PadWidth: right-pad to a display width
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.ClipRunes(firstQuestion, 30)
//	label := util.TruncateWidth(title, 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
