// Package server provides the ellone HTTP REST server, which analyzes
// grammars, parses input with them, and keeps named grammars and the runs
// made with them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/ellone/internal/logutil"
	"github.com/dekarrin/ellone/server/api"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/ellone/server/ellones"
	"github.com/dekarrin/ellone/server/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// server:
//   - POST   /parse                - analyze an inline grammar and parse an input with it
//   - POST   /check-ll1            - check an inline grammar for LL(1) without left factoring
//   - POST   /grammars             - store a named grammar
//   - GET    /grammars             - get all stored grammars
//   - GET    /grammars/{id}        - get one stored grammar
//   - DELETE /grammars/{id}        - delete a stored grammar and its runs (auth required)
//   - POST   /grammars/{id}/runs   - parse an input with a stored grammar
//   - GET    /grammars/{id}/runs   - get the runs of a stored grammar
//   - GET    /runs/{id}            - get one run
//   - POST   /login                - accepts the admin password and returns a jwt
//   - POST   /tokens               - refreshes the token without requiring credentials (auth required)
//   - GET    /info                 - get version info on the server and library
//
// All of the above are under api.PathPrefix. GET /metrics is served at the
// root.

// Server is an HTTP REST server that provides ellone grammar analysis and
// parsing. The zero-value of a Server should not be used directly; call New()
// to get one ready for use.
type Server struct {
	router  http.Handler
	db      dao.Store
	api     api.API
	listen  string
	metrics *prometheus.Registry
}

// New creates a new Server from cfg. Defaults are filled in for any unset
// values of cfg before it is validated.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	srv := &Server{
		db:      db,
		listen:  cfg.Listen,
		metrics: prometheus.NewRegistry(),
		api: api.API{
			Backend: ellones.Service{
				DB:                db,
				AdminPasswordHash: cfg.AdminPasswordHash,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}

	metrics.RegisterMetrics(srv.metrics)
	srv.router = newRouter(srv.api, srv.metrics)

	return srv, nil
}

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ServeForever begins listening on the configured address for HTTP REST
// client requests. It returns when ctx is cancelled, after shutting the
// listener down and closing the store, or when the listener fails.
func (s *Server) ServeForever(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logutil.BgLogger().Info("listening", zap.String("address", s.listen))
		errCh <- httpSrv.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		serveErr = httpSrv.Shutdown(shutdownCtx)
		<-errCh
	}

	if closeErr := s.db.Close(); closeErr != nil {
		logutil.BgLogger().Error("close store", zap.Error(closeErr))
	}

	if errors.Is(serveErr, http.ErrServerClosed) {
		return nil
	}
	return serveErr
}

// Close releases the server's store. It is not needed after ServeForever
// returns.
func (s *Server) Close() error {
	return s.db.Close()
}
