// Package rest exposes the auth service over HTTP/JSON using chi.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// DefaultShutdownTimeout bounds how long Run waits for in-flight requests.
const DefaultShutdownTimeout = 10 * time.Second

// AuthService is the business logic the handlers call. *services.UserService
// implements it.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	VerifyToken(ctx context.Context, token string) (int64, error)
	GetProfile(ctx context.Context, id int64) (*models.User, error)
}

// Options tune the HTTP server. Zero values fall back to defaults.
type Options struct {
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type Server struct {
	address         string
	users           AuthService
	logger          logging.Logger
	router          http.Handler
	shutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, users AuthService, opts Options) *Server {
	s := &Server{
		address:         address,
		users:           users,
		logger:          l.With("module", "rest_server"),
		shutdownTimeout: opts.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = DefaultShutdownTimeout
	}
	s.router = s.newRouter(opts.CORSOrigins)
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
