package render

import "errors"

var (
	// ErrIO reports a failure to create or write the output.
	ErrIO           = errors.New("i/o error")
	ErrBadColorMode = errors.New("bad color mode")
)
