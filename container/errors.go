package container

import "errors"

// Construction errors indicate an incorrectly built container and surface
// from the New* constructors; operation errors surface from the lifecycle
// calls.
var (
	ErrNoCodec      = errors.New("codec required")
	ErrNoTransform  = errors.New("key transform required")
	ErrNoCompose    = errors.New("key composer required")
	ErrNoFactory    = errors.New("value factory required")
	ErrEmptyName    = errors.New("file name required")
	ErrNotBound     = errors.New("container not bound to storage")
	ErrAlreadyBound = errors.New("container already bound")
	ErrNotCached    = errors.New("key not cached")
)
