// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders chat sessions as Markdown, JSON or standalone HTML.
//
// # Key Types
//
//   - Exporter: renders one session into a file format
//   - Options: output directory, timestamps and HTML theme
//
// # Usage
//
//	data, err := export.NewHTMLExporter(nil).Export(sess)
//
// or write straight to disk:
//
//	path, err := export.ToFile(sess, export.FormatHTML, &export.Options{OutputDir: "."})
package export
