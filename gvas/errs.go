package gvas

import (
	"errors"
	"fmt"
)

var (
	ErrDecode      = errors.New("decode error")
	ErrEncode      = errors.New("encode error")
	ErrInvalidHint = errors.New("invalid hint format")
	ErrSchema      = errors.New("document does not match the save schema")

	ErrTruncated   = fmt.Errorf("%w: unexpected end of data", ErrDecode)
	ErrMissingHint = fmt.Errorf("%w: missing type hint", ErrDecode)
	ErrUnsupported = fmt.Errorf("%w: unsupported", ErrDecode)
)

// PropertyError locates a decode failure inside the property tree.
type PropertyError struct {
	Path   string
	Offset int
	Err    error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("%s (property at offset %d): %v", e.Path, e.Offset, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}
