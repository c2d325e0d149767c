package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server runs the HTTP surface until its context ends.
type Server struct {
	addr            string
	handler         http.Handler
	store           *Store
	shutdownTimeout time.Duration
	log             *zap.SugaredLogger
}

// New builds a Server from a router config.
func New(addr string, shutdownTimeout time.Duration, cfg RouterConfig) *Server {
	if cfg.Store == nil {
		cfg.Store = NewStore(cfg.Deps)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		addr:            addr,
		handler:         NewRouter(cfg),
		store:           cfg.Store,
		shutdownTimeout: shutdownTimeout,
		log:             log,
	}
}

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.log.Infow("shutting down", "sessions", s.store.Len())
	err := srv.Shutdown(shutdownCtx)
	s.store.CloseAll()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
