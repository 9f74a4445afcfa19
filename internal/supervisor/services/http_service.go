// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/keepskip/internal/logging"
)

// HTTPServer matches the lifecycle methods of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// forceCloser is implemented by *http.Server.
type forceCloser interface {
	Close() error
}

// HTTPServerService runs the API server under suture.
//
// On ctx cancellation the server stops accepting requests and gets
// shutdownTimeout to drain. Vote requests finish their weight updates even
// after their client leaves, so draining is what keeps a restart from
// cutting a vote off between the record and the weights. Connections still
// open after the timeout are closed.
//
//	server := &http.Server{Addr: ":8080", Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService creates the wrapper. A non-positive shutdownTimeout
// defaults to 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service. http.ErrServerClosed is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := h.drain(); err != nil {
		return err
	}
	<-listenErr
	return ctx.Err()
}

// drain shuts the server down on a fresh context, since the serving one is
// already canceled.
func (h *HTTPServerService) drain() error {
	logging.Info().Dur("timeout", h.shutdownTimeout).Msg("Draining HTTP server")
	start := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	err := h.server.Shutdown(shutdownCtx)
	if err == nil {
		logging.Info().Dur("took", time.Since(start)).Msg("HTTP server drained")
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		if closer, ok := h.server.(forceCloser); ok {
			logging.Warn().Dur("timeout", h.shutdownTimeout).Msg("In-flight requests did not finish, closing connections")
			if closeErr := closer.Close(); closeErr != nil {
				return fmt.Errorf("http server close failed: %w", closeErr)
			}
			return nil
		}
	}
	return fmt.Errorf("http server shutdown failed: %w", err)
}

// String implements fmt.Stringer; suture uses it in log events.
func (h *HTTPServerService) String() string {
	return h.name
}
