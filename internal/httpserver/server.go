package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for in-flight requests.
const DefaultShutdownTimeout = 10 * time.Second

// Server wraps http.Server with timeouts suited to an API that accepts
// multipart video uploads.
type Server struct {
	inner           *http.Server
	shutdownTimeout time.Duration
}

// New constructs a server listening on the provided port. ReadTimeout is left
// unset because upload requests can hold the request body open for a while;
// ReadHeaderTimeout still protects against slowloris clients.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      2 * time.Minute,
			IdleTimeout:       time.Minute,
		},
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Start blocks serving HTTP traffic. A graceful close via Shutdown is not
// reported as an error.
func (s *Server) Start() error {
	if err := s.inner.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, waiting at most the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.inner.Shutdown(ctx)
}
