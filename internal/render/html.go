// Package render turns markdown and evaluation tables into HTML for the web
// dashboard and into styled text for the terminal.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLOptions controls markdown to HTML conversion.
type HTMLOptions struct {
	// Unsafe passes raw HTML in the source through to the output.
	Unsafe    bool
	HardWraps bool
}

// HTML renders markdown documents to HTML fragments. It is safe for concurrent use.
type HTML struct {
	engine goldmark.Markdown
}

// NewHTML builds a GFM renderer with automatic heading ids.
func NewHTML(opts HTMLOptions) *HTML {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(extension.GFM),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &HTML{engine: goldmark.New(engineOptions...)}
}

// Render converts markdown source into an HTML fragment.
func (h *HTML) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.engine.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return buf.String(), nil
}
