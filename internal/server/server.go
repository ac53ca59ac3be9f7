package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/trainload/internal/storage"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies. Replace and import carry a whole dataset.
const maxBodyBytes = 10 << 20

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   storage.Store
	log     *slog.Logger
	metrics *Metrics
	whois   WhoIser
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(store storage.Store, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		log:     log,
		metrics: NewMetrics(),
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.metrics.Instrument)
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, http.StatusNotFound, "not found")
		})

		r.Get("/me", s.handleMe)

		r.Get("/data", s.handleGetData)
		r.Put("/data", s.handleReplaceData)
		r.Delete("/data", s.handleClearData)

		r.Post("/players", s.handleAddPlayer)
		r.Delete("/players/{id}", s.handleDeletePlayer)
		r.Post("/players/{id}/sessions", s.handleAddSession)

		r.Post("/import", s.handleImport)

		r.Get("/stats", s.handleStats)
	})
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetFrontend mounts a static front-end filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
