package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"toolstation/ledger"
	"toolstation/session"
	"toolstation/store"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 10 << 20

// Options tunes the middleware stack. Zero RequestsPerSecond disables rate
// limiting.
type Options struct {
	Logger            *zap.Logger
	RequestsPerSecond float64
	Burst             int
	MaxBodyBytes      int64
}

// RegisterRoutes builds the router. A nil ledger is replaced by an in-memory
// one, so handlers always have a ledger.
func RegisterRoutes(manager *session.Manager, l *ledger.Ledger, staticFS fs.FS, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if l == nil {
		l = ledger.New(store.NewMemory(), opts.Logger.Named("ledger"))
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	h := &handler{
		manager:      manager,
		ledger:       l,
		logger:       opts.Logger,
		maxBodyBytes: opts.MaxBodyBytes,
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(clientIdentity)
		r.Use(newRateLimiter(opts.RequestsPerSecond, opts.Burst).middleware)

		// Catalog
		r.Get("/tools", h.listTools)
		r.Get("/tools/{id}", h.getTool)

		// One-shot tools
		r.Post("/text/metrics", h.textMetrics)
		r.Post("/text/convert", h.textConvert)
		r.Post("/format/json", h.formatJSON)
		r.Post("/format/sql", h.formatSQL)
		r.Post("/base64", h.base64)
		r.Post("/password", h.password)
		r.Post("/qr", h.qr)
		r.Post("/image/convert", h.imageConvert)
		r.Post("/image/compress", h.imageCompress)

		// Ledger
		r.Get("/stats", h.getStats)
		r.Get("/recent", h.getRecent)
		r.Post("/recent/{id}", h.useTool)

		// Sessions
		r.Get("/sessions", h.listSessions)
		r.Post("/sessions", h.createSession)
		r.Get("/sessions/{id}", h.getSession)
		r.Delete("/sessions/{id}", h.killSession)
		r.Get("/sessions/{id}/ws", h.handleWS)
	})

	// Static sub-FS: strip the "static/" prefix present in the embed.FS.
	// A dev FS rooted at the asset directory has no static/ child, so probe
	// index.html to detect that.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		staticSub = staticFS
	} else if _, statErr := fs.Stat(staticSub, "index.html"); statErr != nil {
		staticSub = staticFS
	}

	// Reading the file directly avoids http.FileServer's redirect of
	// paths ending in "index.html".
	r.Get("/", serveFile(staticSub, "index.html"))
	r.Get("/tool/{id}", serveFile(staticSub, "index.html"))

	fileServer := http.FileServer(http.FS(staticSub))
	r.Get("/css/*", fileServer.ServeHTTP)
	r.Get("/js/*", fileServer.ServeHTTP)

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	manager      *session.Manager
	ledger       *ledger.Ledger
	logger       *zap.Logger
	maxBodyBytes int64
}
