// Package server is the browser-facing surface of the deploy wizard. Every
// handler follows the same shape: decode the session cookie, resolve what
// the user may do from it, perform the step, re-encode the session into the
// response. No request state survives on the server side.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imamik/quickdeploy/internal/auth"
	"github.com/imamik/quickdeploy/internal/config"
	"github.com/imamik/quickdeploy/internal/platform/compute"
	"github.com/imamik/quickdeploy/internal/platform/github"
	"github.com/imamik/quickdeploy/internal/session"
)

// Server holds the wizard's dependencies.
type Server struct {
	cfg     *config.Config
	codec   *session.Codec
	auth    *auth.Coordinator
	github  github.Factory
	compute compute.Factory
	pages   *renderer
}

// New builds a server from the configuration and the platform client
// factories.
func New(cfg *config.Config, ghFactory github.Factory, cpFactory compute.Factory) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	toProvider := func(p config.Provider) auth.ProviderConfig {
		return auth.ProviderConfig{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			AuthURL:      p.AuthURL,
			TokenURL:     p.TokenURL,
			Scopes:       p.Scopes,
		}
	}

	return &Server{
		cfg:     cfg,
		codec:   session.NewCodec(cfg.CookieName),
		auth:    auth.NewCoordinator(toProvider(cfg.GitHub), toProvider(cfg.Compute), ghFactory, cpFactory),
		github:  ghFactory,
		compute: cpFactory,
		pages:   pages,
	}, nil
}

// Routes builds the HTTP handler for all wizard routes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /style.css", s.handleStyle)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /oauth/{provider}", s.handleAuthorize)
	mux.HandleFunc("GET /oauth/{provider}/callback", s.handleCallback)
	mux.HandleFunc("POST /auth/reset", s.handleAuthReset)

	mux.HandleFunc("POST /fork", s.handleFork)
	mux.HandleFunc("POST /deploy", s.handleDeploy)
	mux.HandleFunc("GET /deploy/status", s.handleDeployStatus)
	mux.HandleFunc("POST /deploy/reset", s.handleDeployReset)

	mux.HandleFunc("GET /{owner}/{repo}", s.handleWizard)

	return withObservability(mux)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
