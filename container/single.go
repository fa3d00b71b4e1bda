package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/stowage-dev/stowage/codec"
	"github.com/stowage-dev/stowage/storage"
)

// SingleConfig holds construction parameters for a Single container.
type SingleConfig[V any] struct {
	Name     string      // backing file name, without extension; required
	Codec    codec.Codec // required
	New      func() V    // value synthesized when no backing file exists; required
	Eager    bool        // bootstrap-load at registry initialization
	OnLoad   func(V)     // fired on every cache insertion; may be nil
	OnUnload func(V)     // fired on every cache removal; may be nil
}

// Single holds zero or one value of type V, backed by exactly one fixed
// file within the container's assigned directory.
type Single[V any] struct {
	name     string
	codec    codec.Codec
	store    *storage.Store
	newValue func() V
	onLoad   func(V)
	onUnload func(V)
	eager    bool

	val  V
	held bool
}

// NewSingle creates a single-object container from configuration.
func NewSingle[V any](cfg SingleConfig[V]) (*Single[V], error) {
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}
	if cfg.Codec == nil {
		return nil, ErrNoCodec
	}
	if cfg.New == nil {
		return nil, ErrNoFactory
	}
	return &Single[V]{
		name:     cfg.Name,
		codec:    cfg.Codec,
		newValue: cfg.New,
		onLoad:   cfg.OnLoad,
		onUnload: cfg.OnUnload,
		eager:    cfg.Eager,
	}, nil
}

// Bind implements Container.
func (s *Single[V]) Bind(store *storage.Store) error {
	if s.store != nil {
		return ErrAlreadyBound
	}
	s.store = store
	return nil
}

// Eager implements Container.
func (s *Single[V]) Eager() bool { return s.eager }

// Extension implements Container.
func (s *Single[V]) Extension() string { return s.codec.Extension() }

// Load returns the cached value, reading the backing file on first use.
// A missing file is not an error: the factory synthesizes the value
// instead, and the result is cached either way.
func (s *Single[V]) Load(ctx context.Context) (V, error) {
	if s.held {
		return s.val, nil
	}

	var zero V
	if s.store == nil {
		return zero, ErrNotBound
	}

	data, err := s.store.Read(ctx, s.name)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		s.insert(s.newValue())
	case err != nil:
		return zero, fmt.Errorf("load %s: %w", s.name, err)
	default:
		var v V
		if err := s.codec.Decode(data, &v); err != nil {
			return zero, fmt.Errorf("decode %s: %w", s.name, err)
		}
		s.insert(v)
	}
	return s.val, nil
}

// Store replaces the cached value without touching disk. A nil value means
// "no value currently held" and clears the cache slot, firing the unload
// hook; a non-nil value fires the load hook.
func (s *Single[V]) Store(v *V) {
	if v == nil {
		s.Evict()
		return
	}
	s.insert(*v)
}

// Retrieve returns the cached value without touching disk. The second
// return is false when nothing has been loaded or stored.
func (s *Single[V]) Retrieve() (V, bool) {
	return s.val, s.held
}

// Persist writes the cached value to the backing file, or deletes the file
// when no value is held. The cache is left untouched.
func (s *Single[V]) Persist(ctx context.Context) error {
	if s.store == nil {
		return ErrNotBound
	}
	if !s.held {
		return s.store.Delete(ctx, s.name)
	}
	data, err := s.codec.Encode(s.val)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}
	return s.store.Write(ctx, s.name, data)
}

// Save persists the cached value and evicts it. A no-op when nothing is
// cached, so repeated calls are safe.
func (s *Single[V]) Save(ctx context.Context) error {
	if !s.held {
		return nil
	}
	if err := s.Persist(ctx); err != nil {
		return err
	}
	s.Evict()
	return nil
}

// Evict clears the cached value, firing the unload hook. The backing file
// is untouched.
func (s *Single[V]) Evict() {
	if !s.held {
		return
	}
	v := s.val
	var zero V
	s.val = zero
	s.held = false
	if s.onUnload != nil {
		s.onUnload(v)
	}
}

// BootstrapLoad implements Container. It is Load used as the eager entry
// point at startup, populating the cache as a side effect.
func (s *Single[V]) BootstrapLoad(ctx context.Context) error {
	_, err := s.Load(ctx)
	return err
}

// SaveAll implements Container; for a single-object container it is Save.
func (s *Single[V]) SaveAll(ctx context.Context) error {
	return s.Save(ctx)
}

func (s *Single[V]) insert(v V) {
	s.val = v
	s.held = true
	if s.onLoad != nil {
		s.onLoad(v)
	}
}
