// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"
	"time"

	"github.com/jeranaias/ictchat/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports sessions to Markdown, sources included.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a session to Markdown.
func (e *MarkdownExporter) Export(sess model.Session) ([]byte, error) {
	if err := validate(sess); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("# " + escapeMarkdown(sess.DisplayTitle()) + "\n\n")
	sb.WriteString("Session: `" + sess.ID + "`  \n")
	sb.WriteString("Updated: " + sess.LastUpdated.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range sess.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "**")
		if e.options.IncludeTimestamps {
			sb.WriteString(" (" + msg.Timestamp.Format("15:04") + ")")
		}
		sb.WriteString(":\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
		if msg.HasSources() {
			sb.WriteString("Institutional Sources:\n\n")
			for _, src := range msg.Sources {
				if uri := src.WebURI(); uri != "" {
					sb.WriteString("- [" + escapeMarkdown(src.Label()) + "](" + markdownURL(uri) + ")\n")
				} else {
					sb.WriteString("- " + escapeMarkdown(src.Label()) + "\n")
				}
			}
			sb.WriteString("\n")
		}
		sb.WriteString("---\n\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// escapeMarkdown escapes brackets and emphasis markers in titles and labels.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"[", `\[`,
		"]", `\]`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
	)
	return r.Replace(s)
}

// markdownURL percent-encodes the characters that would end a link
// destination early.
func markdownURL(uri string) string {
	return strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "<", "%3C", ">", "%3E").Replace(uri)
}
