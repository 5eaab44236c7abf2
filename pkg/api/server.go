package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/session"
	"github.com/logsmart/designer/pkg/snap"
	"github.com/logsmart/designer/pkg/store"
)

// Server serves the designer API.
type Server struct {
	store     store.Store
	gen       session.Generator
	catalog   *canvas.Catalog
	width     float64
	height    float64
	threshold float64
	cors      string
	logger    *log.Logger
	sessions  *Registry
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithGenerator enables the generate endpoints.
func WithGenerator(g session.Generator) Option {
	return func(s *Server) { s.gen = g }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCatalog sets the component catalog for every session.
func WithCatalog(c *canvas.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithCanvasSize sets the canvas dimensions for every session.
func WithCanvasSize(width, height float64) Option {
	return func(s *Server) { s.width, s.height = width, height }
}

// WithThreshold sets the snap distance for every session.
func WithThreshold(px float64) Option {
	return func(s *Server) { s.threshold = px }
}

// WithCORSOrigin sets the Access-Control-Allow-Origin header. Empty
// disables CORS headers.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.cors = origin }
}

// NewServer creates a Server backed by st.
func NewServer(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:     st,
		catalog:   canvas.DefaultCatalog(),
		width:     canvas.DefaultWidth,
		height:    canvas.DefaultHeight,
		threshold: snap.DefaultThreshold,
		sessions:  NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the open session registry.
func (s *Server) Sessions() *Registry { return s.sessions }

func (s *Server) newController() *session.Controller {
	opts := []session.Option{
		session.WithLogger(s.logger),
		session.WithCatalog(s.catalog),
		session.WithThreshold(s.threshold),
		session.WithCanvasOptions(canvas.WithSize(s.width, s.height)),
	}
	if s.gen != nil {
		opts = append(opts, session.WithGenerator(s.gen))
	}
	return session.New(s.store, opts...)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.cors != "" {
		r.Use(s.corsHeaders)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/catalog", s.handleCatalog)
	r.Get("/templates", s.handleListTemplates)

	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleCloseSession)

		r.Put("/template", s.handleUpdateTemplate)
		r.Delete("/template", s.handleDeleteTemplate)

		r.Post("/items", s.handleAddItem)
		r.Delete("/items/{id}", s.handleRemoveItem)
		r.Post("/items/{id}/move", s.handleMoveItem)
		r.Put("/items/{id}/lock", s.handleLockItem)
		r.Patch("/items/{id}/props", s.handleUpdateProps)

		r.Put("/selection", s.handleSelect)
		r.Post("/align", s.handleAlign)
		r.Put("/geometry", s.handleGeometry)

		r.Post("/save", s.handleSave)
		r.Get("/versions", s.handleVersions)
		r.Post("/versions/{index}/restore", s.handleRestore)

		r.Post("/generate", s.handleGenerate)
		r.Post("/generate/{action}", s.handleGenerationAction)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.cors)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes every open session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.CloseAll()
	s.logger.Info("server stopped")
	return err
}
