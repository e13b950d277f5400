/*
Package export renders loaded content through templates and writes the site.

An export runs in phases. The navigation and article list are built once, then asset
mirroring starts and runs alongside the rest. Every template the content refers to is
read into an immutable cache, and finally every index and page is rendered
concurrently, each from a private copy of the shared context, and written to
<output>/<dir>/index.html. The loader rejects content whose output folders clash, and
an asset whose path equals a rendered file fails the export, so no file is written twice.

The first error fails the export after all running jobs have finished. Files that were
already written stay on disk.
*/
package export

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"time"

	"github.com/ancientlore/quire/builderr"
	"github.com/ancientlore/quire/cache"
	"github.com/ancientlore/quire/content"
	"github.com/ancientlore/quire/metrics"
	"github.com/ancientlore/quire/shortcode"
	"github.com/ancientlore/quire/work"
)

// OutputFile is the file name every index and page is written to.
const OutputFile = "index.html"

// Exporter writes a site. Templates and Out must be set.
type Exporter struct {
	Templates       fs.FS            // templates folder, used for preload and includes
	Assets          fs.FS            // assets folder; nil or missing means no assets
	Out             Writer           // output root
	SiteTitle       string           // value of site_title
	SiteDescription string           // value of site_description
	Workers         int              // jobs run at once; <= 0 means GOMAXPROCS
	Log             *slog.Logger     // defaults to slog.Default()
	Recorder        metrics.Recorder // defaults to metrics.NoopRecorder
}

// unit is one file to render.
type unit struct {
	kind     string // metrics.KindIndex or metrics.KindPage
	source   string // content file, for error messages
	dir      string // output directory relative to the output root
	template string
	ctx      shortcode.Context
}

// Export writes indices and mirrors the assets. If both fail, the content
// error is returned.
func (e *Exporter) Export(ctx context.Context, indices []*content.Index) error {
	if e.Templates == nil || e.Out == nil {
		return fmt.Errorf("Export: templates and output must be set")
	}
	if e.Log == nil {
		e.Log = slog.Default()
	}
	if e.Recorder == nil {
		e.Recorder = metrics.NoopRecorder{}
	}

	start := time.Now()
	global := globalContext(indices, e.SiteTitle, e.SiteDescription)
	units := buildUnits(indices, global)
	e.Recorder.ObservePhaseDuration("context", time.Since(start))

	rendered := make(map[string]string, len(units))
	for _, u := range units {
		rendered[u.output()] = u.source
	}
	assets := work.NewGroup(1)
	assets.Go("assets", func() error {
		start := time.Now()
		defer func() { e.Recorder.ObservePhaseDuration("assets", time.Since(start)) }()
		return e.mirrorAssets(rendered)
	})

	err := e.exportContent(ctx, units, len(indices))
	assetsErr := assets.Wait()
	if err != nil {
		return err
	}
	return assetsErr
}

func (e *Exporter) exportContent(ctx context.Context, units []unit, indices int) error {
	start := time.Now()
	tpls, err := cache.Preload(e.Templates, templatePaths(units))
	if err != nil {
		return fmt.Errorf("preload templates: %w", err)
	}
	e.Recorder.ObservePhaseDuration("preload", time.Since(start))
	e.Log.Debug("Preloaded templates", "templates", tpls.Paths())

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("Export: %w", err)
	}

	start = time.Now()
	engine := shortcode.New(e.Templates, e.Log)
	g := work.NewGroup(e.Workers)
	for _, u := range units {
		g.Go(u.source, func() error {
			return e.exportUnit(engine, tpls, u)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	e.Recorder.ObservePhaseDuration("render", time.Since(start))
	e.Log.Info("Exported content", "indices", indices, "files", len(units), "templates", tpls.Len())
	return nil
}

// output returns the file the unit is written to.
func (u unit) output() string {
	return path.Join(u.dir, OutputFile)
}

// buildUnits lists one unit per index and page, each with its own context.
func buildUnits(indices []*content.Index, global shortcode.Context) []unit {
	var units []unit
	for _, ix := range indices {
		units = append(units, unit{
			kind:     metrics.KindIndex,
			source:   path.Join(ix.Metadata.Filepath, content.IndexFile),
			dir:      ix.Dir(),
			template: ix.Metadata.Template,
			ctx:      indexContext(global, ix),
		})
		for _, p := range ix.Pages {
			units = append(units, unit{
				kind:     metrics.KindPage,
				source:   p.Metadata.Filepath,
				dir:      p.Dir(),
				template: p.Metadata.Template,
				ctx:      pageContext(global, p),
			})
		}
	}
	return units
}

// templatePaths returns the distinct templates of units in sorted order.
func templatePaths(units []unit) []string {
	paths := make([]string, 0, len(units))
	for _, u := range units {
		paths = append(paths, u.template)
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

func (e *Exporter) exportUnit(engine *shortcode.Engine, tpls *cache.Templates, u unit) error {
	text, ok := tpls.Get(u.template)
	if !ok {
		return builderr.New(builderr.ReadInput, u.template, fs.ErrNotExist)
	}
	out, err := engine.Expand(u.ctx, text)
	if err != nil {
		return fmt.Errorf("render %s with %s: %w", u.source, u.template, err)
	}
	dir := u.dir
	if dir == "" {
		dir = "."
	}
	if err := e.Out.MkdirAll(dir); err != nil {
		return builderr.New(builderr.CreateDirectory, dir, err)
	}
	name := u.output()
	if err := writeFile(e.Out, name, []byte(out)); err != nil {
		return builderr.New(builderr.WriteFile, name, err)
	}
	e.Recorder.IncExported(u.kind)
	e.Log.Debug("Wrote file", "source", u.source, "output", name)
	return nil
}
