/*
Package content discovers and parses the Markdown content of a site.

A content directory becomes an Index when it holds an "index.md" file; every other
Markdown file in that directory becomes one of the Index's pages. Files start with TOML
front matter delimited by "+++" lines:

	+++
	id = "hello"
	title = "Hello world"
	date = 2023-03-01
	+++
	# Hello
	Some *Markdown*.

Page front matter:

	Name            Type       Description
	--------------  ---------  -----------------------------------------------
	id              string     URL slug, unique among the pages of an index
	title           string     Title of the page
	display_in_nav  uint       Position in the navigation; hidden if absent
	weight          int        Sort key when the index sorts by weight
	excerpt         string     Summary shown in article lists
	date            datetime   Publish date
	template        string     Template to render with (default "index.html")

Index front matter has title, display_in_nav, template and sort_by, which is one of
"title", "date" or "weight".
*/
package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/ancientlore/quire/builderr"
	"github.com/ancientlore/quire/metrics"
	"github.com/ancientlore/quire/work"
	"github.com/pelletier/go-toml/v2"
)

const (
	// IndexFile marks a directory as an Index.
	IndexFile = "index.md"
	// MarkdownExt is the extension of content files.
	MarkdownExt = ".md"
)

// OrphanPolicy decides what happens to pages in a directory without an index file.
type OrphanPolicy int

const (
	DropOrphans   OrphanPolicy = iota // discard them with a warning
	RejectOrphans                     // fail the load
)

// ParseOrphanPolicy parses "drop" or "error"; "" means drop.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch strings.ToLower(s) {
	case "", "drop":
		return DropOrphans, nil
	case "error":
		return RejectOrphans, nil
	}
	return DropOrphans, fmt.Errorf("unknown orphan policy %q (want drop or error)", s)
}

// Loader loads a content tree. The zero value is not usable; FS must be set.
type Loader struct {
	FS       fs.FS            // content folder
	Renderer Renderer         // defaults to Goldmark
	Workers  int              // parse jobs run at once; <= 0 means GOMAXPROCS
	Orphans  OrphanPolicy     // pages outside an index
	Log      *slog.Logger     // defaults to slog.Default()
	Recorder metrics.Recorder // defaults to metrics.NoopRecorder
}

// Load walks the content tree depth first and returns its indices in discovery
// order, each with its pages sorted. The first error aborts the whole load.
func (l *Loader) Load(ctx context.Context) ([]*Index, error) {
	if l.FS == nil {
		return nil, fmt.Errorf("Load: no content filesystem")
	}
	if l.Renderer == nil {
		l.Renderer = Goldmark()
	}
	if l.Log == nil {
		l.Log = slog.Default()
	}
	if l.Recorder == nil {
		l.Recorder = metrics.NoopRecorder{}
	}

	var (
		indices []*Index
		stack   = []string{"."}
		outputs = make(map[string]string) // output folder -> source file
	)
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("Load: %w", err)
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fs.ReadDir(l.FS, dir)
		if err != nil {
			return nil, builderr.New(builderr.ReadDirectory, dir, err)
		}
		var (
			indexFile string
			pageFiles []string
			subdirs   []string
		)
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			p := path.Join(dir, name)
			switch {
			case entry.IsDir():
				subdirs = append(subdirs, p)
			case name == IndexFile:
				indexFile = p
			case path.Ext(name) == MarkdownExt:
				pageFiles = append(pageFiles, p)
			}
		}
		// reverse so that the first subdirectory is popped first
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}

		ix, err := l.loadDir(dir, indexFile, pageFiles)
		if err != nil {
			return nil, err
		}
		if ix != nil {
			if err := claimOutputs(outputs, ix); err != nil {
				return nil, err
			}
			indices = append(indices, ix)
		}
	}
	return indices, nil
}

// claimOutputs records the output folders of ix and its pages in outputs.
// A page id equal to the name of a sibling folder with an index would make both
// write the same file, so any folder claimed twice is an error.
func claimOutputs(outputs map[string]string, ix *Index) error {
	claim := func(dir, source string) error {
		if other, ok := outputs[dir]; ok {
			return &builderr.Error{
				Kind:   builderr.ParseMetadata,
				Path:   source,
				Detail: fmt.Sprintf("URL %s already used by %s", dirURL(dir), other),
			}
		}
		outputs[dir] = source
		return nil
	}
	if err := claim(ix.Dir(), path.Join(ix.Metadata.Filepath, IndexFile)); err != nil {
		return err
	}
	for _, p := range ix.Pages {
		if err := claim(p.Dir(), p.Metadata.Filepath); err != nil {
			return err
		}
	}
	return nil
}

// loadDir parses the index and pages of one directory concurrently and joins them.
func (l *Loader) loadDir(dir, indexFile string, pageFiles []string) (*Index, error) {
	var (
		g     = work.NewGroup(l.Workers)
		pages = make([]*Page, len(pageFiles))
		ix    *Index
	)
	for i, name := range pageFiles {
		g.Go(name, func() error {
			p, err := l.parsePage(name)
			if err != nil {
				return err
			}
			pages[i] = p
			return nil
		})
	}
	if indexFile != "" {
		g.Go(indexFile, func() error {
			var err error
			ix, err = l.parseIndex(dir, indexFile)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ix == nil {
		if len(pageFiles) > 0 {
			if l.Orphans == RejectOrphans {
				return nil, builderr.New(builderr.OrphanedContent, pageFiles[0], nil)
			}
			l.Log.Warn("Dropping pages in folder without index", "dir", dir, "index", IndexFile, "pages", len(pageFiles))
		}
		return nil, nil
	}

	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if other, ok := seen[p.Metadata.ID]; ok {
			return nil, &builderr.Error{
				Kind:   builderr.ParseMetadata,
				Path:   p.Metadata.Filepath,
				Detail: fmt.Sprintf("id %q already used by %s", p.Metadata.ID, other),
			}
		}
		seen[p.Metadata.ID] = p.Metadata.Filepath
	}
	SortPages(pages, ix.Metadata.SortBy)
	ix.Pages = pages
	l.Log.Debug("Loaded index", "dir", dir, "pages", len(pages), "sort_by", ix.Metadata.SortBy)
	return ix, nil
}

func (l *Loader) parsePage(name string) (*Page, error) {
	var meta PageMetadata
	html, err := l.parseFile(name, &meta)
	if err != nil {
		return nil, err
	}
	if !validID(meta.ID) {
		return nil, &builderr.Error{
			Kind:   builderr.ParseMetadata,
			Path:   name,
			Detail: fmt.Sprintf("id %q is not a valid path element", meta.ID),
		}
	}
	if meta.Template == "" {
		meta.Template = DefaultTemplate
	}
	meta.Filepath = name
	l.Recorder.IncParsed(metrics.KindPage)
	return &Page{Metadata: meta, HTML: html}, nil
}

func (l *Loader) parseIndex(dir, name string) (*Index, error) {
	var meta IndexMetadata
	html, err := l.parseFile(name, &meta)
	if err != nil {
		return nil, err
	}
	if meta.Template == "" {
		meta.Template = DefaultTemplate
	}
	if dir != "." {
		meta.Filepath = dir
	}
	l.Recorder.IncParsed(metrics.KindIndex)
	return &Index{Metadata: meta, HTML: html}, nil
}

// parseFile reads name, decodes its front matter into meta and renders its Markdown.
func (l *Loader) parseFile(name string, meta any) (string, error) {
	b, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return "", builderr.New(builderr.ReadInput, name, err)
	}
	fm, md, ok := extractFrontMatter(b)
	if !ok {
		return "", builderr.New(builderr.MalformedContent, name, nil)
	}
	if err := toml.Unmarshal(fm, meta); err != nil {
		return "", builderr.New(builderr.ParseMetadata, name, err)
	}
	html, err := l.Renderer.Render(md)
	if err != nil {
		return "", &builderr.Error{Kind: builderr.MalformedContent, Path: name, Detail: "markdown", Err: err}
	}
	return html, nil
}

// validID reports whether id can be used as a single output path element.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`) && fs.ValidPath(id)
}
