// Package registry owns the set of containers, assigns each a directory
// under a common root, and drives the bootstrap/teardown lifecycle across
// them. It is the explicit lifecycle context the host creates at startup:
// populated via Register, frozen once InitializeAll begins, cleared by
// ShutdownAll.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"

	"github.com/stowage-dev/stowage/container"
	"github.com/stowage-dev/stowage/observability"
	"github.com/stowage-dev/stowage/storage"
)

// Lifecycle event types. Failure events carry the container name; all
// events carry the run_id correlating one lifecycle pass.
const (
	EventInitialized     observability.EventType = "registry.initialized"
	EventShutdown        observability.EventType = "registry.shutdown"
	EventBootstrapFailed observability.EventType = "registry.bootstrap.failed"
	EventShutdownFailed  observability.EventType = "registry.shutdown.failed"
)

type entry struct {
	name      string
	container container.Container
}

// Registry tracks containers in registration order. Not safe for
// concurrent registration; the lifecycle calls are expected to run from a
// single goroutine at process startup and termination.
type Registry struct {
	entries  []entry
	frozen   bool
	fs       billy.Filesystem
	observer observability.Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithFilesystem replaces the local-disk filesystem. The root passed to
// InitializeAll is then resolved inside fs, which lets tests run the whole
// lifecycle against memfs.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(r *Registry) { r.fs = fs }
}

// WithObserver overrides the default slog observer.
func WithObserver(o observability.Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// New creates an empty Registry backed by the local filesystem.
func New(opts ...Option) *Registry {
	r := &Registry{
		fs:       osfs.New("/"),
		observer: observability.NewSlogObserver(slog.Default()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates a container with its logical directory name. No
// filesystem effects happen until InitializeAll. Names must be unique, and
// registration is rejected once initialization has begun.
func (r *Registry) Register(name string, c container.Container) error {
	if name == "" {
		return ErrEmptyName
	}
	if c == nil {
		return ErrNilContainer
	}
	if r.frozen {
		return fmt.Errorf("%w: %s", ErrFrozen, name)
	}
	for _, e := range r.entries {
		if e.name == name {
			return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
		}
	}
	r.entries = append(r.entries, entry{name: name, container: c})
	return nil
}

// InitializeAll creates the root directory — resolved inside the registry's
// filesystem — then for each registered
// container creates its subdirectory, binds a store scoped to it, and
// bootstrap-loads the container if it is marked eager. Directory and bind
// failures are structural and abort immediately; bootstrap failures are
// isolated per container — reported to the observer, then skipped — so one
// misconfigured container does not block the others.
func (r *Registry) InitializeAll(ctx context.Context, root string) error {
	r.frozen = true
	runID := uuid.NewString()

	if err := r.fs.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create root %s: %w", root, err)
	}
	rootFS, err := r.fs.Chroot(root)
	if err != nil {
		return fmt.Errorf("enter root %s: %w", root, err)
	}

	for _, e := range r.entries {
		if err := rootFS.MkdirAll(e.name, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", e.name, err)
		}
		sub, err := rootFS.Chroot(e.name)
		if err != nil {
			return fmt.Errorf("enter directory %s: %w", e.name, err)
		}
		if err := e.container.Bind(storage.New(sub, e.container.Extension())); err != nil {
			return fmt.Errorf("bind %s: %w", e.name, err)
		}

		if !e.container.Eager() {
			continue
		}
		if err := e.container.BootstrapLoad(ctx); err != nil {
			r.emit(ctx, EventBootstrapFailed, observability.LevelError, map[string]any{
				"run_id":    runID,
				"container": e.name,
				"error":     err.Error(),
			})
		}
	}

	r.emit(ctx, EventInitialized, observability.LevelInfo, map[string]any{
		"run_id":     runID,
		"root":       root,
		"containers": len(r.entries),
	})
	return nil
}

// ShutdownAll saves every registered container, isolating per-container
// failures, then clears the registry so no container remains reachable
// through it. The first failure is returned after all containers have been
// attempted.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	runID := uuid.NewString()

	var firstErr error
	for _, e := range r.entries {
		if err := e.container.SaveAll(ctx); err != nil {
			r.emit(ctx, EventShutdownFailed, observability.LevelError, map[string]any{
				"run_id":    runID,
				"container": e.name,
				"error":     err.Error(),
			})
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown %s: %w", e.name, err)
			}
		}
	}

	saved := len(r.entries)
	r.entries = nil
	r.frozen = false

	r.emit(ctx, EventShutdown, observability.LevelInfo, map[string]any{
		"run_id":     runID,
		"containers": saved,
	})
	return firstErr
}

// Find returns the first registered container whose dynamic type is T.
func Find[T container.Container](r *Registry) (T, bool) {
	for _, e := range r.entries {
		if c, ok := e.container.(T); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}

func (r *Registry) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	r.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "registry",
		Data:      data,
	})
}
