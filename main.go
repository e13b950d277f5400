package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientlore/quire/builderr"
	"github.com/ancientlore/quire/config"
	"github.com/ancientlore/quire/metrics"
	"github.com/ancientlore/quire/web"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
)

// Exit codes.
const (
	exitOK     = 0
	exitBuild  = 1 // bad content, templates or file system trouble
	exitConfig = 2
	exitDefect = 3 // a job panicked
)

func main() {
	os.Exit(run())
}

func run() int {
	// Setup flags
	var (
		fConfig   = flag.String("config", config.DefaultFile, "Configuration file.")
		fContent  = flag.String("content", "", "Folder holding content, templates and assets; overrides content_path.")
		fOutput   = flag.String("output", "", "Output folder; overrides output_path.")
		fWorkers  = flag.Int("workers", 0, "Concurrent jobs, 0 for one per CPU; overrides workers.")
		fMarkdown = flag.String("markdown", "", "Markdown renderer, goldmark or blackfriday; overrides markdown.")
		fOrphans  = flag.String("orphans", "", "What to do with pages outside an index, drop or error; overrides orphans.")
		fMetrics  = flag.String("metrics", "", "Write build metrics to this Prometheus textfile; overrides metrics_file.")
		fServe    = flag.String("serve", "", "After building, serve the output on this address, for example :8080.")
		fVerbose  = flag.Bool("v", false, "Log debug messages.")
	)
	flag.Parse()
	flagenv.Prefix = "QUIRE_"
	flagenv.Parse()

	level := slog.LevelInfo
	if *fVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load(*fConfig)
	if err != nil {
		return fail(log, err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "content":
			cfg.ContentPath = *fContent
		case "output":
			cfg.OutputPath = *fOutput
		case "workers":
			cfg.Workers = *fWorkers
		case "markdown":
			cfg.Markdown = *fMarkdown
		case "orphans":
			cfg.Orphans = *fOrphans
		case "metrics":
			cfg.MetricsFile = *fMetrics
		}
	})
	if err := cfg.Validate(); err != nil {
		return fail(log, err)
	}
	log.Debug("Loaded configuration", "file", *fConfig, "content", cfg.ContentPath, "output", cfg.OutputPath)

	// Templates are cached by groupcache, without peers.
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		rec = prom
	}

	start := time.Now()
	err = build(ctx, cfg, log, rec)
	if err != nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
	} else {
		rec.IncBuildOutcome(metrics.OutcomeSuccess)
	}
	if prom != nil {
		if werr := prom.WriteTextfile(cfg.MetricsFile); werr != nil {
			log.Warn("Cannot write metrics", "file", cfg.MetricsFile, "err", werr)
		}
	}
	if err != nil {
		return fail(log, err)
	}
	log.Info("Build finished", "output", cfg.OutputPath, "elapsed", time.Since(start))

	if *fServe != "" {
		if err := web.Serve(ctx, *fServe, web.NewHandler(os.DirFS(cfg.OutputPath), log), log); err != nil {
			log.Error("HTTP server", "err", err)
			return exitBuild
		}
		log.Info("Goodbye.")
	}
	return exitOK
}

// fail logs err and returns the exit code for it.
func fail(log *slog.Logger, err error) int {
	category := builderr.CategoryOf(err)
	attrs := []any{"err", err, "category", category.String()}
	var be *builderr.Error
	if errors.As(err, &be) && be.Stack != "" {
		attrs = append(attrs, "stack", be.Stack)
	}
	log.Error("Build failed", attrs...)
	return exitCode(err)
}

func exitCode(err error) int {
	switch builderr.CategoryOf(err) {
	case builderr.Config:
		return exitConfig
	case builderr.Defect:
		return exitDefect
	}
	if err != nil {
		return exitBuild
	}
	return exitOK
}
