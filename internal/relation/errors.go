package relation

import "errors"

// Common errors returned by the relation package.
var (
	// ErrOutOfRange is returned when a row or column lies outside the
	// addressed space. It is never clamped.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrInvalidBinding is returned when a join is constructed with a nil
	// source or a key column outside the source's column count.
	ErrInvalidBinding = errors.New("invalid join binding")

	// ErrUnsupported is returned by forwarded capabilities the main source
	// does not implement.
	ErrUnsupported = errors.New("capability not supported by main source")
)
