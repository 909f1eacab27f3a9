// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render?format=svg|png|pdf   body: CSV description
//	GET  /v1/renders                     recent renders, newest first
//	GET  /v1/renders/{id}                render metadata
//	GET  /v1/renders/{id}/{format}       stored artifact
//	GET  /healthz                        liveness and build info
package server

import (
	"context"
	stderrors "errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pinout/pkg/config"
	"github.com/matzehuels/pinout/pkg/pipeline"
	"github.com/matzehuels/pinout/pkg/store"
)

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	// Assets resolves IMAGE and ICON names for every request.
	Assets fs.FS
	Render config.RenderConfig
	// MaxBodyBytes limits the description size.
	MaxBodyBytes int64
	// Timeout bounds a single render.
	Timeout time.Duration
	Logger  *log.Logger
}

// Server is the HTTP render service.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds the router. Missing options get working defaults.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	s := &Server{opts: opts}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.render)
		r.Get("/renders", s.listRenders)
		r.Get("/renders/{id}", s.getRender)
		r.Get("/renders/{id}/{format}", s.getArtifact)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFoundError(r.URL.Path))
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.opts.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.opts.Store.Close(shutdownCtx)
}
