// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/config"
)

// Server runs the HTTP listener under the supervision tree.
type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	logger  zerolog.Logger
}

// NewServer builds the supervised HTTP server.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With().Str("component", "http").Logger(),
	}
}

// Serve runs the listener until the context ends, then shuts down
// gracefully within the configured shutdown timeout. It satisfies the
// supervisor service contract.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Timeout,
		WriteTimeout: s.cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		s.logger.Info().Msg("http server stopped")
		return ctx.Err()
	}
}

// String names the service in supervisor logs.
func (s *Server) String() string { return "http-server" }
