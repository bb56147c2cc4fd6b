package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts bot markdown replies into HTML for the widget. User
// content never goes through markdown; it is escaped instead.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GFM extensions enabled (tables and
// autolinks show up in formatted search results).
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// RenderBot converts a bot message body from markdown to HTML.
func (r *Renderer) RenderBot(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// EscapeUser escapes user-typed content so it can be embedded in markup
// without injection.
func EscapeUser(content string) string {
	return html.EscapeString(content)
}
