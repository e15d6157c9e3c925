// Package lifecycle coordinates startup and shutdown of long-lived
// subsystems such as storage backends and the HTTP listener.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Hook is a named startup or shutdown step.
type Hook func(ctx context.Context) error

// Coordinator runs startup hooks concurrently as they are registered and
// shutdown hooks concurrently when Shutdown is called. It reports ready once
// every startup hook has returned without error.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup sync.WaitGroup
	mu      sync.Mutex
	failed  []error

	shutdown []namedHook
	ready    atomic.Bool
}

type namedHook struct {
	name string
	fn   Hook
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup starts fn immediately with the coordinator context. Its error,
// if any, is reported by WaitForStartup.
func (c *Coordinator) OnStartup(name string, fn Hook) {
	c.startup.Go(func() {
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failed = append(c.failed, fmt.Errorf("%s: %w", name, err))
			c.mu.Unlock()
		}
	})
}

// OnShutdown registers fn to run when Shutdown is called. The context it
// receives expires with the shutdown timeout.
func (c *Coordinator) OnShutdown(name string, fn Hook) {
	c.mu.Lock()
	c.shutdown = append(c.shutdown, namedHook{name: name, fn: fn})
	c.mu.Unlock()
}

// Ready reports whether every startup hook has completed successfully.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks return. The coordinator
// becomes ready only if none failed.
func (c *Coordinator) WaitForStartup() error {
	c.startup.Wait()

	c.mu.Lock()
	err := errors.Join(c.failed...)
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	c.ready.Store(true)
	return nil
}

// Shutdown marks the coordinator not ready, cancels its context, and runs
// the shutdown hooks concurrently within timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.mu.Lock()
	hooks := c.shutdown
	c.mu.Unlock()

	errs := make([]error, len(hooks))
	var wg sync.WaitGroup
	for i, h := range hooks {
		wg.Go(func() {
			if err := h.fn(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", h.name, err)
			}
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return errors.Join(errs...)
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
