// Package server exposes the loaded datasets as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"

	"heatmap/internal/config"
	"heatmap/internal/dataset"
	"heatmap/internal/logger"
)

// Server routes API requests to dataset handlers.
type Server struct {
	cfg     *config.Config
	catalog *dataset.Catalog
	log     *logger.Logger
	router  *mux.Router
}

// New creates a server for the datasets in catalog. log may be nil.
func New(cfg *config.Config, catalog *dataset.Catalog, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		log:     log.With("component", "http"),
		router:  mux.NewRouter(),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodHead)

	for _, entry := range s.catalog.Entries() {
		s.router.Handle(entry.Config.Route, s.datasetHandler(entry)).Methods(http.MethodGet, http.MethodHead)
	}
}

// Handler returns the full handler chain: CORS, then compression, then routing.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router

	if s.cfg.Server.Gzip {
		h = gzhttp.GzipHandler(h)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"ETag", requestIDHeader},
		MaxAge:         3600,
	})

	return c.Handler(h)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout(),
		WriteTimeout:      s.cfg.Server.WriteTimeout(),
		IdleTimeout:       s.cfg.Server.IdleTimeout(),
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server listening", "addr", ln.Addr().String(), "datasets", len(s.catalog.Entries()))

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info("server exited")

	return nil
}
