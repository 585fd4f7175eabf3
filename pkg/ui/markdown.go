package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps a glamour renderer at a fixed wrap width. A nil
// receiver and any render error both fall back to the raw text, so markdown
// problems never break a view.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at width columns.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &MarkdownRenderer{width: width}
	}
	return &MarkdownRenderer{renderer: r, width: width}
}

// SetWidth rebuilds the renderer when the wrap width changes.
func (m *MarkdownRenderer) SetWidth(width int) {
	if m == nil || width == m.width {
		return
	}
	*m = *NewMarkdownRenderer(width)
}

// Render renders markdown to styled terminal text, trimming the excess
// vertical whitespace glamour likes to add.
func (m *MarkdownRenderer) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(strings.TrimPrefix(out, "\n"), "\n")
}
