package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ancientlore/quire/cache"
	"github.com/ancientlore/quire/config"
	"github.com/ancientlore/quire/content"
	"github.com/ancientlore/quire/export"
	"github.com/ancientlore/quire/metrics"
)

// build loads the content tree and exports the site described by cfg.
func build(ctx context.Context, cfg config.Config, log *slog.Logger, rec metrics.Recorder) error {
	renderer, err := content.RendererByName(cfg.Markdown)
	if err != nil {
		return err
	}
	orphans, err := content.ParseOrphanPolicy(cfg.Orphans)
	if err != nil {
		return err
	}

	start := time.Now()
	loader := &content.Loader{
		FS:       os.DirFS(cfg.ContentDir()),
		Renderer: renderer,
		Workers:  cfg.Workers,
		Orphans:  orphans,
		Log:      log.With("phase", "load"),
		Recorder: rec,
	}
	indices, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	rec.ObservePhaseDuration("load", time.Since(start))
	log.Info("Loaded content", "indices", len(indices), "folder", cfg.ContentDir())

	exporter := &export.Exporter{
		Templates:       cache.NewFS(os.DirFS(cfg.TemplatesDir()), cfg.TemplateCacheBytes),
		Assets:          os.DirFS(cfg.AssetsDir()),
		Out:             export.DirWriter(cfg.OutputPath),
		SiteTitle:       cfg.Site.Title,
		SiteDescription: cfg.Site.Description,
		Workers:         cfg.Workers,
		Log:             log.With("phase", "export"),
		Recorder:        rec,
	}
	return exporter.Export(ctx, indices)
}
