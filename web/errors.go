package web

import (
	"io/fs"
	"log/slog"
	"net/http"
)

// ErrorPages maps status codes to the pages served in their place.
var ErrorPages = map[int]string{
	http.StatusNotFound:            "404.html",
	http.StatusInternalServerError: "500.html",
}

// ErrorHandler replaces the body of error responses with the matching page from
// ErrorPages when the site has one. Otherwise the response passes through.
func ErrorHandler(h http.Handler, site fs.FS, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&errorPageWriter{ResponseWriter: w, site: site, log: log, path: r.URL.Path}, r)
	})
}

// errorPageWriter swallows the body written after an error status it replaced.
type errorPageWriter struct {
	http.ResponseWriter
	site     fs.FS
	log      *slog.Logger
	path     string
	replaced bool
	err      error
}

func (w *errorPageWriter) Write(b []byte) (int, error) {
	if w.replaced {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorPageWriter) WriteHeader(statusCode int) {
	name, ok := ErrorPages[statusCode]
	if !ok {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	w.log.Debug("Error response", "status", statusCode, "path", w.path)
	b, err := fs.ReadFile(w.site, name)
	if err != nil {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Del("Content-Length")
	h.Del("X-Content-Type-Options")
	w.ResponseWriter.WriteHeader(statusCode)
	w.replaced = true
	_, w.err = w.ResponseWriter.Write(b)
}
