// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/ictchat/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports sessions to a single HTML page with embedded CSS.
// Fenced code blocks are highlighted inline so the page needs no assets.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML.
func (e *HTMLExporter) Export(sess model.Session) ([]byte, error) {
	if err := validate(sess); err != nil {
		return nil, err
	}

	title := html.EscapeString(sess.DisplayTitle())
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"ictchat\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", sess.LastUpdated.Format(time.RFC3339))
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", e.theme())
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", title)
	fmt.Fprintf(&sb, "            <div class=\"metadata\"><span>Session <code>%s</code></span> <span>%d messages</span> <span>Updated %s</span></div>\n",
		html.EscapeString(sess.ID), len(sess.Messages), sess.LastUpdated.Format("2006-01-02 15:04"))
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range sess.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>ICT AI</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() string {
	if e.options.Theme == "dark" {
		return "dark"
	}
	return "light"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "            <div class=\"message %s-message\">\n", html.EscapeString(string(msg.Role)))
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", html.EscapeString(msg.Role.DisplayName()))
	if e.options.IncludeTimestamps {
		fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", msg.Timestamp.Format("15:04"))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(formatContent(msg.Content))
	sb.WriteString("\n                </div>\n")

	if msg.HasSources() {
		sb.WriteString("                <div class=\"sources\">\n")
		sb.WriteString("                    <p class=\"sources-title\">Institutional Sources</p>\n")
		sb.WriteString("                    <ul>\n")
		for _, src := range msg.Sources {
			label := html.EscapeString(src.Label())
			if uri := src.WebURI(); uri != "" {
				fmt.Fprintf(&sb, "                        <li><a href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\">%s</a></li>\n",
					html.EscapeString(uri), label)
			} else {
				fmt.Fprintf(&sb, "                        <li>%s</li>\n", label)
			}
		}
		sb.WriteString("                    </ul>\n")
		sb.WriteString("                </div>\n")
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// CONTENT FORMATTING
// =============================================================================

var inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")

// formatContent splits content on ``` fences. Prose becomes escaped
// paragraphs; fenced blocks go through chroma.
func formatContent(content string) string {
	var out []string
	var text, code []string
	lang := ""
	inCode := false

	flushText := func() {
		if len(text) > 0 {
			out = append(out, formatProse(strings.Join(text, "\n")))
			text = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				out = append(out, highlightBlock(strings.Join(code, "\n"), lang))
				code = nil
				inCode = false
				continue
			}
			flushText()
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			inCode = true
			continue
		}
		if inCode {
			code = append(code, line)
		} else {
			text = append(text, line)
		}
	}

	// An unterminated fence still renders as code.
	if inCode {
		out = append(out, highlightBlock(strings.Join(code, "\n"), lang))
	}
	flushText()

	return strings.Join(out, "\n")
}

func formatProse(s string) string {
	var paras []string
	for _, p := range strings.Split(s, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = html.EscapeString(p)
		p = inlineCodeRegex.ReplaceAllString(p, "<code class=\"inline-code\">$1</code>")
		p = strings.ReplaceAll(p, "\n", "<br>\n")
		paras = append(paras, "<p>"+p+"</p>")
	}
	return strings.Join(paras, "\n")
}

// highlightBlock renders code with inline styles. Falls back to an escaped
// <pre> when chroma fails.
func highlightBlock(code, lang string) string {
	label := ""
	if lang != "" {
		label = fmt.Sprintf("<div class=\"code-lang\">%s</div>", html.EscapeString(lang))
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := chromaStyles.Get("github")
	if style == nil {
		style = chromaStyles.Fallback
	}

	var sb strings.Builder
	iterator, err := lexer.Tokenise(nil, code)
	if err == nil {
		err = chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)).Format(&sb, style, iterator)
	}
	if err != nil {
		return fmt.Sprintf("<div class=\"code-block\">%s<pre><code>%s</code></pre></div>", label, html.EscapeString(code))
	}
	return "<div class=\"code-block\">" + label + sb.String() + "</div>"
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const pageCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        .light-theme {
            --bg-primary: #f4f7f5;
            --bg-card: #ffffff;
            --text-primary: #1c2421;
            --text-muted: #5f6b66;
            --border: #d9e2dd;
            --user-bg: #e8f3ee;
            --accent: #006a4e;
            --accent-red: #f42a41;
        }

        .dark-theme {
            --bg-primary: #0d1512;
            --bg-card: #15201c;
            --text-primary: #e4ece8;
            --text-muted: #8fa39a;
            --border: #26352f;
            --user-bg: #1b2b25;
            --accent: #2fa37f;
            --accent-red: #f45b6c;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Noto Sans Bengali", sans-serif;
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-card);
            border: 1px solid var(--border);
            border-radius: 12px;
            overflow: hidden;
        }

        .header { padding: 28px 32px; border-bottom: 4px solid var(--accent); }
        .header h1 { font-size: 24px; color: var(--accent); margin-bottom: 8px; }
        .metadata { color: var(--text-muted); font-size: 14px; }
        .metadata span { margin-right: 16px; }

        .conversation { padding: 24px 32px; }
        .message { padding: 16px 20px; margin-bottom: 16px; border-radius: 10px; border: 1px solid var(--border); }
        .user-message { background: var(--user-bg); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 8px; }
        .role-label { font-weight: 600; color: var(--accent); }
        .user-message .role-label { color: var(--accent-red); }
        .timestamp { color: var(--text-muted); font-size: 13px; }
        .message-content p { margin-bottom: 10px; }

        .inline-code { font-family: monospace; padding: 1px 4px; border-radius: 4px; background: var(--border); }
        .code-block { margin: 12px 0; border: 1px solid var(--border); border-radius: 8px; overflow-x: auto; }
        .code-block pre { padding: 12px; }
        .code-lang { font-size: 12px; padding: 4px 12px; color: var(--text-muted); border-bottom: 1px solid var(--border); }

        .sources { margin-top: 12px; padding-top: 8px; border-top: 1px dashed var(--border); font-size: 14px; }
        .sources-title { font-weight: 600; color: var(--text-muted); }
        .sources ul { margin-left: 20px; }
        .sources a { color: var(--accent); }

        .footer { padding: 16px 32px; color: var(--text-muted); font-size: 13px; border-top: 1px solid var(--border); }

        @media print {
            body { padding: 0; background: #fff; }
            .message { page-break-inside: avoid; }
        }
    </style>
`
