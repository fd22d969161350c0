// Package api exposes the subscription flow over HTTP: a signup form
// endpoint plus the confirm/unsubscribe capability-link endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/fuel-alert/internal/config"
	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/subscription"
)

// Server is the subscription HTTP server.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates the server with routes configured.
func NewServer(cfg config.ServerConfig, flow *subscription.Flow, templates *mailer.Templates) *Server {
	h := &Handlers{flow: flow, templates: templates}
	return &Server{
		config:  cfg,
		handler: SetupRoutes(h),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.GetHost(), s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
