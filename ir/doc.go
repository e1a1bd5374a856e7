// Package ir provides the in-memory document tree shared by the save codec
// and the text formats.
//
// # Overview
//
// A document is a tree of Node values. The tree is a recursive tagged union:
// the Type field says which of the other fields carry the value.
//
//   - NullType: no value
//   - BoolType: Bool
//   - NumberType: exactly one of Int64, Uint64 or Float64
//   - StringType: String
//   - ArrayType: Values, in order
//   - ObjectType: Fields (string nodes holding the keys) and Values, in
//     insertion order
//
// Objects keep their insertion order and may repeat a key, which is what a
// save file's property bag needs for lossless round trips.
//
// Integers are stored as Int64 whenever they fit; Uint64 is used only for
// values above math.MaxInt64. FromUint applies this rule, so a number read
// from a 4 byte unsigned field and the same number read back from text are
// Equal.
//
// # Related Packages
//
//   - github.com/signadot/gvas-format/gvas - binary save codec
//   - github.com/signadot/gvas-format/encode - Node to JSON, YAML, TOML
//   - github.com/signadot/gvas-format/parse - JSON, YAML, TOML to Node
package ir
