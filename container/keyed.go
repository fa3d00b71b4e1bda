package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/stowage-dev/stowage/codec"
	"github.com/stowage-dev/stowage/observability"
	"github.com/stowage-dev/stowage/storage"
)

// EventBootstrapSkip is emitted once per backing file skipped during a
// bootstrap scan, carrying the file name and the error that caused the skip.
const EventBootstrapSkip observability.EventType = "container.bootstrap.skip"

// KeyedConfig holds construction parameters for a Keyed container.
// Transform and Compose must be inverses: Compose(Transform(k)) == k for
// every valid key, or bootstrap scans will resolve files to the wrong keys.
type KeyedConfig[K comparable, V any] struct {
	Codec     codec.Codec             // required
	Transform func(K) string          // key → file name; required
	Compose   func(string) (K, error) // file name → key, inverse of Transform; required
	New       func(K) V               // value synthesized on cache-and-disk miss; required
	Eager     bool                    // bootstrap-load at registry initialization
	OnLoad    func(K, V)              // fired on every cache insertion; may be nil
	OnUnload  func(K, V)              // fired on every cache removal; may be nil
	Observer  observability.Observer  // bootstrap skip logging; defaults to slog
}

// Keyed maps keys to values, each distinct key backed by its own file
// "<Transform(key)><ext>" within the container's assigned directory.
type Keyed[K comparable, V any] struct {
	codec     codec.Codec
	store     *storage.Store
	transform func(K) string
	compose   func(string) (K, error)
	newValue  func(K) V
	onLoad    func(K, V)
	onUnload  func(K, V)
	eager     bool
	observer  observability.Observer

	cache map[K]V
}

// NewKeyed creates a keyed container from configuration.
func NewKeyed[K comparable, V any](cfg KeyedConfig[K, V]) (*Keyed[K, V], error) {
	if cfg.Codec == nil {
		return nil, ErrNoCodec
	}
	if cfg.Transform == nil {
		return nil, ErrNoTransform
	}
	if cfg.Compose == nil {
		return nil, ErrNoCompose
	}
	if cfg.New == nil {
		return nil, ErrNoFactory
	}

	obs := cfg.Observer
	if obs == nil {
		obs = observability.NewSlogObserver(slog.Default())
	}

	return &Keyed[K, V]{
		codec:     cfg.Codec,
		transform: cfg.Transform,
		compose:   cfg.Compose,
		newValue:  cfg.New,
		onLoad:    cfg.OnLoad,
		onUnload:  cfg.OnUnload,
		eager:     cfg.Eager,
		observer:  obs,
		cache:     make(map[K]V),
	}, nil
}

// Bind implements Container.
func (c *Keyed[K, V]) Bind(store *storage.Store) error {
	if c.store != nil {
		return ErrAlreadyBound
	}
	c.store = store
	return nil
}

// Eager implements Container.
func (c *Keyed[K, V]) Eager() bool { return c.eager }

// Extension implements Container.
func (c *Keyed[K, V]) Extension() string { return c.codec.Extension() }

// Load returns the value for key, reading its backing file on first use.
// A missing file is not an error: the factory synthesizes the value
// instead, and the result is cached either way.
func (c *Keyed[K, V]) Load(ctx context.Context, key K) (V, error) {
	if v, ok := c.cache[key]; ok {
		return v, nil
	}

	var zero V
	if c.store == nil {
		return zero, ErrNotBound
	}

	data, err := c.store.Read(ctx, c.transform(key))
	switch {
	case errors.Is(err, storage.ErrNotExist):
		c.insert(key, c.newValue(key))
	case err != nil:
		return zero, fmt.Errorf("load %v: %w", key, err)
	default:
		var v V
		if err := c.codec.Decode(data, &v); err != nil {
			return zero, fmt.Errorf("decode %v: %w", key, err)
		}
		c.insert(key, v)
	}
	return c.cache[key], nil
}

// BootstrapLoadAll scans the assigned directory, derives each key via the
// composer, and caches every value whose key is not already cached — live
// cache entries are never overwritten with disk state. Per-file failures
// are reported to the observer and skipped so one unreadable file does not
// abort the scan.
func (c *Keyed[K, V]) BootstrapLoadAll(ctx context.Context) error {
	if c.store == nil {
		return ErrNotBound
	}

	names, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap scan: %w", err)
	}

	for _, name := range names {
		key, err := c.compose(name)
		if err != nil {
			c.skip(ctx, name, err)
			continue
		}
		if _, ok := c.cache[key]; ok {
			continue
		}
		data, err := c.store.Read(ctx, name)
		if err != nil {
			c.skip(ctx, name, err)
			continue
		}
		var v V
		if err := c.codec.Decode(data, &v); err != nil {
			c.skip(ctx, name, err)
			continue
		}
		c.insert(key, v)
	}
	return nil
}

// BootstrapLoad implements Container.
func (c *Keyed[K, V]) BootstrapLoad(ctx context.Context) error {
	return c.BootstrapLoadAll(ctx)
}

// Save writes the cached value for key to its backing file, then evicts
// it. A no-op when the key is not cached.
func (c *Keyed[K, V]) Save(ctx context.Context, key K) error {
	v, ok := c.cache[key]
	if !ok {
		return nil
	}
	if err := c.Persist(ctx, key, &v); err != nil {
		return err
	}
	c.Evict(key)
	return nil
}

// SaveAll saves every cached key. It iterates a snapshot of the key set:
// Save evicts as it goes, and the live map must not be mutated while being
// ranged over.
func (c *Keyed[K, V]) SaveAll(ctx context.Context) error {
	keys := make([]K, 0, len(c.cache))
	for key := range c.cache {
		keys = append(keys, key)
	}
	for _, key := range keys {
		if err := c.Save(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Store replaces the cached value for key without touching disk, firing the
// load hook. A nil value behaves as Evict.
func (c *Keyed[K, V]) Store(key K, v *V) {
	if v == nil {
		c.Evict(key)
		return
	}
	c.insert(key, *v)
}

// Evict removes key from the cache, firing the unload hook if the key was
// present. The backing file is untouched.
func (c *Keyed[K, V]) Evict(key K) {
	v, ok := c.cache[key]
	if !ok {
		return
	}
	delete(c.cache, key)
	if c.onUnload != nil {
		c.onUnload(key, v)
	}
}

// Persist writes value to key's backing file, or deletes the file when
// value is nil. The cache is never read or written; deleting an absent
// file succeeds (see storage.Store.Delete).
func (c *Keyed[K, V]) Persist(ctx context.Context, key K, v *V) error {
	if c.store == nil {
		return ErrNotBound
	}
	name := c.transform(key)
	if v == nil {
		return c.store.Delete(ctx, name)
	}
	data, err := c.codec.Encode(*v)
	if err != nil {
		return fmt.Errorf("encode %v: %w", key, err)
	}
	return c.store.Write(ctx, name, data)
}

// ReadRaw reads key's backing file directly, bypassing the cache and the
// factory. The second return is false when no file exists.
func (c *Keyed[K, V]) ReadRaw(ctx context.Context, key K) (V, bool, error) {
	var zero V
	if c.store == nil {
		return zero, false, ErrNotBound
	}

	data, err := c.store.Read(ctx, c.transform(key))
	if errors.Is(err, storage.ErrNotExist) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("read %v: %w", key, err)
	}

	var v V
	if err := c.codec.Decode(data, &v); err != nil {
		return zero, false, fmt.Errorf("decode %v: %w", key, err)
	}
	return v, true, nil
}

// Update persists the value currently cached for key, leaving the cache
// entry in place. Returns ErrNotCached when the key is absent.
func (c *Keyed[K, V]) Update(ctx context.Context, key K) error {
	v, ok := c.cache[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotCached, key)
	}
	return c.Persist(ctx, key, &v)
}

// Retrieve returns the cached value for key without touching disk.
func (c *Keyed[K, V]) Retrieve(key K) (V, bool) {
	v, ok := c.cache[key]
	return v, ok
}

// ContainsKey reports whether key is cached. Never touches disk.
func (c *Keyed[K, V]) ContainsKey(key K) bool {
	_, ok := c.cache[key]
	return ok
}

// ContainsValue reports whether any cached value equals v under
// reflect.DeepEqual. Never touches disk.
func (c *Keyed[K, V]) ContainsValue(v V) bool {
	for _, cached := range c.cache {
		if reflect.DeepEqual(cached, v) {
			return true
		}
	}
	return false
}

// CachedKeys returns a snapshot of all cached keys in unspecified order.
func (c *Keyed[K, V]) CachedKeys() []K {
	keys := make([]K, 0, len(c.cache))
	for key := range c.cache {
		keys = append(keys, key)
	}
	return keys
}

func (c *Keyed[K, V]) insert(key K, v V) {
	c.cache[key] = v
	if c.onLoad != nil {
		c.onLoad(key, v)
	}
}

func (c *Keyed[K, V]) skip(ctx context.Context, name string, err error) {
	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventBootstrapSkip,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "container",
		Data: map[string]any{
			"file":  name,
			"error": err.Error(),
		},
	})
}
