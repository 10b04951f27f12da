// Package apperr holds sentinel errors shared by the service and adapters.
package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPath        = errors.New("invalid path")
	ErrEmptyContent       = errors.New("empty content")
	ErrUnknownDestination = errors.New("unknown destination")
	ErrTransformFailed    = errors.New("transform failed")
)
