// Package parse reads JSON, YAML and TOML text into IR nodes.
//
// Unlike decoding into Go maps, parsing keeps the document order of object
// fields and keeps repeated keys, which save files rely on. Integers stay
// exact: values that fit an int64 are stored as such, larger positive values
// as a uint64. Numbers written with a decimal point or an exponent are
// floats.
//
// # Usage
//
//	node, err := parse.Parse(data, parse.ParseYAML())
//	if err != nil {
//	    return err
//	}
//
// Errors wrap [ErrFormat] and carry the underlying parser's diagnostic.
//
// # Related Packages
//
//   - github.com/signadot/gvas-format/ir - IR representation
//   - github.com/signadot/gvas-format/encode - Encode IR to text
package parse
