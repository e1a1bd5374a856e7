package parse

import "errors"

// ErrFormat reports text that is not valid in the requested format, or that
// holds a construct with no document equivalent.
var ErrFormat = errors.New("format error")
