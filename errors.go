package pitft

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrClosed           = errors.New("pitft: closed")
	ErrPatternIndex     = errors.New("pitft: pattern index out of range")
	ErrPatternDestroyed = errors.New("pitft: pattern slot empty or destroyed")
	ErrPatternInvalid   = errors.New("pitft: pattern invalid")
	ErrNotGradient      = errors.New("pitft: pattern is not a gradient")
)

// PatternError is returned when the paint state or a registry operation refers
// to a pattern that cannot be used.
type PatternError struct {
	Index int
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%v (index %d)", e.Err, e.Index)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// ImageError is returned when an image file cannot be read or decoded.
type ImageError struct {
	Path string
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("pitft: error reading image %s: %v", e.Path, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}
