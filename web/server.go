// Package web serves a built site for local preview.
package web

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
)

// Timeouts of the preview server.
const (
	ReadTimeout       = 10 * time.Second
	ReadHeaderTimeout = 5 * time.Second
	WriteTimeout      = 30 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// NewHandler serves the files of site with compression, error pages and
// caching disabled.
func NewHandler(site fs.FS, log *slog.Logger) http.Handler {
	return HeaderHandler(
		gziphandler.GzipHandler(
			ErrorHandler(
				HiddenHandler(http.FileServer(http.FS(site))),
				site,
				log,
			),
		),
		NoCacheHeaders,
	)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       ReadTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(sctx)
	}()

	log.Info("Listening for requests", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-done; err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
