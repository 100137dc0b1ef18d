package codeccaps

import "errors"

// Common errors. Operations wrap these with context; test with errors.Is.
var (
	// ErrNotFound is returned when no codec, or no color format, matches the
	// requested MIME type.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for empty MIME types and for codecs
	// queried about a MIME type they do not support.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBackendUnavailable is returned by registries whose native library
	// or binary cannot be loaded on this host.
	ErrBackendUnavailable = errors.New("registry backend not available")
)
