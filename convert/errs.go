package convert

import "github.com/signadot/gvas-format/render"

// ErrIO reports a failure to open, read, create or write a file or stream.
var ErrIO = render.ErrIO
