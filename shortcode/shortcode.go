/*
Package shortcode expands shortcodes inside template text.

Two forms are recognized:

	{{ name }}                  replaced by the value of name in the Context
	{% include "path/file" %}   replaced by the raw contents of path/file in the templates filesystem

Expansion is recursive: the replacement of a shortcode is scanned again together with
the rest of the text, so included files and context values may contain further
shortcodes. There is no cycle detection. A context value or an include that refers to
itself, directly or through other includes, never terminates; callers must make sure
the templates and values they pass in are acyclic.

Any shortcode that fails to parse or resolve aborts the expansion, and no partial output
is returned.
*/
package shortcode

import (
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"strings"

	"github.com/ancientlore/quire/builderr"
)

const (
	shortcodeStart = '{' // every shortcode starts with this
	commandStart   = "{%"
	commandEnd     = "%}"
	tagStart       = "{{"
	tagEnd         = "}}"
	includeCommand = "include"
)

// Context maps tag names to their values.
type Context map[string]string

// Clone returns a copy of c that can be changed independently.
func (c Context) Clone() Context {
	if c == nil {
		return Context{}
	}
	return maps.Clone(c)
}

// Shortcode is a parsed shortcode, either a Tag or an Include.
type Shortcode interface {
	isShortcode()
}

// Tag inserts the context value called Name.
type Tag struct {
	Name string
}

// Include inserts the contents of the template file at Path.
type Include struct {
	Path string
}

func (Tag) isShortcode()     {}
func (Include) isShortcode() {}

// Parse parses a complete shortcode span, delimiters included.
func Parse(s string) (Shortcode, error) {
	if inner, ok := trimDelims(s, tagStart, tagEnd); ok {
		return Tag{Name: strings.TrimSpace(inner)}, nil
	}
	if inner, ok := trimDelims(s, commandStart, commandEnd); ok {
		if p, ok := parseInclude(strings.TrimSpace(inner)); ok {
			return Include{Path: p}, nil
		}
	}
	return nil, builderr.New(builderr.ParseShortcode, s, nil)
}

// parseInclude parses `include "path"`.
func parseInclude(cmd string) (string, bool) {
	rest, ok := strings.CutPrefix(cmd, includeCommand)
	if !ok {
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t\r\n")
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	p := rest[1 : len(rest)-1]
	if p == "" || strings.Contains(p, `"`) {
		return "", false
	}
	return p, true
}

func trimDelims(s, start, end string) (string, bool) {
	if len(s) < len(start)+len(end) || !strings.HasPrefix(s, start) || !strings.HasSuffix(s, end) {
		return "", false
	}
	return s[len(start) : len(s)-len(end)], true
}

// Find locates the first shortcode in s and returns its span [start, end),
// delimiters included. An opening brace without a matching closer is skipped.
func Find(s string) (start, end int, ok bool) {
	from := 0
	for {
		i := strings.IndexByte(s[from:], shortcodeStart)
		if i < 0 {
			return 0, 0, false
		}
		start = from + i
		rest := s[start:]
		var closer string
		switch {
		case strings.HasPrefix(rest, tagStart):
			closer = tagEnd
		case strings.HasPrefix(rest, commandStart):
			closer = commandEnd
		}
		if closer != "" {
			if j := strings.Index(rest[2:], closer); j >= 0 {
				return start, start + 2 + j + len(closer), true
			}
		}
		from = start + 1
	}
}

// Engine expands shortcodes, reading includes from a templates filesystem.
type Engine struct {
	templates fs.FS
	log       *slog.Logger
}

// New returns an engine that resolves includes against templates.
// A nil logger uses slog.Default().
func New(templates fs.FS, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{templates: templates, log: log}
}

// Resolve returns the replacement text for sc.
func (e *Engine) Resolve(ctx Context, sc Shortcode) (string, error) {
	switch sc := sc.(type) {
	case Tag:
		e.log.Debug("Replacing tag", "tag", sc.Name)
		v, ok := ctx[sc.Name]
		if !ok {
			return "", builderr.New(builderr.TagNotFound, sc.Name, nil)
		}
		return v, nil
	case Include:
		e.log.Debug("Including file", "path", sc.Path)
		name := path.Clean(sc.Path)
		if !fs.ValidPath(name) {
			return "", builderr.New(builderr.IncludeShortcode, sc.Path, fs.ErrInvalid)
		}
		if e.templates == nil {
			return "", builderr.New(builderr.IncludeShortcode, sc.Path, fs.ErrNotExist)
		}
		b, err := fs.ReadFile(e.templates, name)
		if err != nil {
			return "", builderr.New(builderr.IncludeShortcode, sc.Path, err)
		}
		return string(b), nil
	}
	panic(fmt.Sprintf("shortcode: unknown shortcode type %T", sc))
}

// Expand replaces every shortcode in text, rescanning each replacement.
func (e *Engine) Expand(ctx Context, text string) (string, error) {
	var out strings.Builder
	for {
		start, end, ok := Find(text)
		if !ok {
			break
		}
		sc, err := Parse(text[start:end])
		if err != nil {
			return "", err
		}
		r, err := e.Resolve(ctx, sc)
		if err != nil {
			return "", err
		}
		out.WriteString(text[:start])
		text = r + text[end:]
	}
	out.WriteString(text)
	return out.String(), nil
}
