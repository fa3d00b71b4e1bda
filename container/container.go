// Package container implements the file-backed object cache lifecycle:
// values are loaded lazily from per-key backing files through a codec, held
// in an in-memory cache, and written back only on explicit persist or save
// calls. The cache may run ahead of disk between those calls.
//
// Two variants exist. Single holds zero or one value behind a fixed file
// name; Keyed maps keys to values with one file per key. Both are driven
// uniformly by the registry through the Container interface.
//
// Containers are not safe for concurrent use. Callers sharing a container
// across goroutines must serialize access themselves.
package container

import (
	"context"

	"github.com/stowage-dev/stowage/storage"
)

// Container is the uniform contract the registry drives across both
// variants.
type Container interface {
	// Bind assigns the backing store. The registry calls it exactly once,
	// before any load or save; a second call returns ErrAlreadyBound.
	Bind(store *storage.Store) error
	// Eager reports whether the registry should bootstrap-load this
	// container during initialization.
	Eager() bool
	// BootstrapLoad populates the cache from disk at startup.
	BootstrapLoad(ctx context.Context) error
	// SaveAll flushes every cached value to disk, evicting as it goes.
	SaveAll(ctx context.Context) error
	// Extension returns the backing-file extension of the container's codec.
	Extension() string
}
