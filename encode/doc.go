// Package encode writes ir documents as JSON, YAML or TOML text.
//
// # Usage
//
//	err := encode.Encode(doc, os.Stdout,
//	    encode.EncodeFormat(format.JSONFormat),
//	    encode.EncodePretty(true),
//	    encode.EncodeColors(encode.NewColors()))
//
// Field order is kept in every format. Floats always print with a decimal
// point and integers are written exactly. Values a format cannot express,
// such as NaN in JSON or null in TOML, fail with [ErrEncoding].
//
// # Related Packages
//
//   - github.com/signadot/gvas-format/ir - document representation
//   - github.com/signadot/gvas-format/parse - parse text to ir
package encode
