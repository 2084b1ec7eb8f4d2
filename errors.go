package iconwriter

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFilter is returned when pending entries need rasterizing but no
	// filter was supplied.
	ErrNoFilter = errors.New("iconwriter: no resampling filter for pending entries")
	// ErrEmptyIcon is returned when encoding an icon without entries.
	ErrEmptyIcon = errors.New("iconwriter: icon has no entries")
)

// SizeAlreadyIncludedError reports a size that another entry already covers.
type SizeAlreadyIncludedError struct {
	Size int
}

func (e *SizeAlreadyIncludedError) Error() string {
	return fmt.Sprintf("iconwriter: size %dx%d already included", e.Size, e.Size)
}

// KeyAlreadyIncludedError reports a key that is already in use.
type KeyAlreadyIncludedError struct {
	Key Key
}

func (e *KeyAlreadyIncludedError) Error() string {
	return fmt.Sprintf("iconwriter: key %q already included", e.Key)
}

// MismatchedDimensionsError reports a filter output whose dimensions differ
// from the requested size.
type MismatchedDimensionsError struct {
	Expected      int
	Width, Height int
}

func (e *MismatchedDimensionsError) Error() string {
	return fmt.Sprintf("iconwriter: expected %dx%d image, filter produced %dx%d", e.Expected, e.Expected, e.Width, e.Height)
}

// InvalidSizeError reports a size request that breaks the preconditions of
// AddEntry.
type InvalidSizeError struct {
	Size   int
	Reason string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("iconwriter: invalid size %d: %s", e.Size, e.Reason)
}

// UnsupportedIconTypeError reports a size the target container cannot
// represent.
type UnsupportedIconTypeError struct {
	Format Format
	Size   int
}

func (e *UnsupportedIconTypeError) Error() string {
	return fmt.Sprintf("iconwriter: %s has no icon type for size %dx%d", e.Format, e.Size, e.Size)
}

// DecodeError wraps failures to decode or rasterize source artwork.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("iconwriter: decoding source: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IOError wraps failures of the destination an icon is written to.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("iconwriter: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
