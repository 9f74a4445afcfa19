// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*SchedulerService)(nil)
	_ suture.Service = (*SnapshotService)(nil)
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr   error
	block       bool
	shutdownErr error

	listenCount   atomic.Int32
	shutdownCount atomic.Int32
	started       chan struct{}
	stopOnce      sync.Once
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	if m.block {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdownCount.Add(1)
	m.stopOnce.Do(func() { close(m.stopCh) })
	return m.shutdownErr
}

func waitStarted(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("service did not start")
	}
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout)
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v: got %v, want 10s", timeout, svc.shutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("shuts down gracefully on context cancellation", func(t *testing.T) {
		server := newMockHTTPServer()
		server.block = true
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		waitStarted(t, server.started)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancellation")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdownCount.Load())
		}
	})

	t.Run("returns error on startup failure", func(t *testing.T) {
		bindErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenErr = bindErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("expected wrapped bind error, got %v", err)
		}
	})

	t.Run("returns shutdown error", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.block = true
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		waitStarted(t, server.started)
		cancel()

		if err := <-errCh; !errors.Is(err, shutdownErr) {
			t.Errorf("expected shutdown error, got %v", err)
		}
	})
}

// closingHTTPServer also offers Close, like *http.Server.
type closingHTTPServer struct {
	*mockHTTPServer
	closeCount atomic.Int32
}

func (c *closingHTTPServer) Close() error {
	c.closeCount.Add(1)
	return nil
}

func TestHTTPServerService_ForceClosesAfterDrainTimeout(t *testing.T) {
	server := &closingHTTPServer{mockHTTPServer: newMockHTTPServer()}
	server.block = true
	server.shutdownErr = context.DeadlineExceeded
	svc := NewHTTPServerService(server, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitStarted(t, server.started)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled after forced close, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if got := server.closeCount.Load(); got != 1 {
		t.Errorf("Close called %d times, want 1", got)
	}
}

type mockScheduler struct {
	startErr error
	starts   atomic.Int32
	stops    atomic.Int32
	started  chan struct{}
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.starts.Add(1)
	if m.startErr != nil {
		return m.startErr
	}
	select {
	case m.started <- struct{}{}:
	default:
	}
	return nil
}

func (m *mockScheduler) Stop() error {
	m.stops.Add(1)
	return nil
}

func TestSchedulerService(t *testing.T) {
	t.Run("starts and stops with context", func(t *testing.T) {
		sched := &mockScheduler{started: make(chan struct{}, 1)}
		svc := NewSchedulerService(sched)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		waitStarted(t, sched.started)
		cancel()

		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if sched.stops.Load() != 1 {
			t.Errorf("Stop called %d times, want 1", sched.stops.Load())
		}
	})

	t.Run("start failure is returned", func(t *testing.T) {
		startErr := errors.New("already started")
		sched := &mockScheduler{startErr: startErr, started: make(chan struct{}, 1)}

		err := NewSchedulerService(sched).Serve(context.Background())
		if !errors.Is(err, startErr) {
			t.Errorf("expected start error, got %v", err)
		}
		if sched.stops.Load() != 0 {
			t.Error("Stop should not be called after a failed Start")
		}
	})
}

type mockReloader struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (m *mockReloader) Reload(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()
	m.done <- struct{}{}
	return err
}

func (m *mockReloader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestSnapshotService(t *testing.T) {
	t.Run("loads at startup and on trigger", func(t *testing.T) {
		store := &mockReloader{done: make(chan struct{}, 4)}
		svc := NewSnapshotService(store)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		waitStarted(t, store.done)
		svc.Trigger()
		waitStarted(t, store.done)

		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if store.Calls() != 2 {
			t.Errorf("Reload called %d times, want 2", store.Calls())
		}
	})

	t.Run("load failure does not stop the service", func(t *testing.T) {
		store := &mockReloader{err: errors.New("malformed"), done: make(chan struct{}, 4)}
		svc := NewSnapshotService(store)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		waitStarted(t, store.done)
		select {
		case err := <-errCh:
			t.Fatalf("Serve returned early: %v", err)
		case <-time.After(50 * time.Millisecond):
		}

		cancel()
		<-errCh
	})

	t.Run("pending triggers collapse", func(t *testing.T) {
		svc := NewSnapshotService(&mockReloader{done: make(chan struct{}, 4)})
		svc.Trigger()
		svc.Trigger()
		svc.Trigger()
		if len(svc.trigger) != 1 {
			t.Errorf("pending triggers = %d, want 1", len(svc.trigger))
		}
	})
}
