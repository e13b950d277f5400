package content

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML.
type Renderer interface {
	Render(markdown []byte) (string, error)
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(markdown []byte) (string, error)

// Render calls f.
func (f RendererFunc) Render(markdown []byte) (string, error) {
	return f(markdown)
}

// Goldmark returns a renderer with tables, strikethrough, task lists, autolinks
// and footnotes enabled. Raw HTML in the Markdown is passed through.
func Goldmark() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return RendererFunc(func(markdown []byte) (string, error) {
		var buf bytes.Buffer
		if err := md.Convert(markdown, &buf); err != nil {
			return "", err
		}
		return trimEnd(buf.String()), nil
	})
}

// Blackfriday returns a renderer using blackfriday's common extensions and footnotes.
// It has no task list support.
func Blackfriday() Renderer {
	return RendererFunc(func(markdown []byte) (string, error) {
		out := blackfriday.Run(markdown, blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Footnotes))
		return trimEnd(string(out)), nil
	})
}

// RendererByName returns the renderer called name; "" selects goldmark.
func RendererByName(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "goldmark":
		return Goldmark(), nil
	case "blackfriday":
		return Blackfriday(), nil
	}
	return nil, fmt.Errorf("unknown markdown renderer %q", name)
}

func trimEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
