package registry

import "errors"

// Sentinel errors for registry operations.
var (
	ErrEmptyName         = errors.New("container name required")
	ErrNilContainer      = errors.New("nil container")
	ErrAlreadyRegistered = errors.New("container already registered")
	ErrFrozen            = errors.New("registry frozen after initialization")
)
