package storage

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotExist     = errors.New("no backing file")
	ErrReadFailed   = errors.New("read failed")
	ErrWriteFailed  = errors.New("write failed")
	ErrDeleteFailed = errors.New("delete failed")
)
