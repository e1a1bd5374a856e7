// Package gvas reads and writes Unreal Engine GVAS save files as ir
// documents.
//
// A decoded document has a header object, an ordered object of top level
// properties and, when the file does not end in four zero bytes, a base64
// trailer. Each property is an object whose first field, "type", is the
// property type name. The remaining fields depend on the type; values that
// cannot be interpreted are kept as base64 in a "raw" field so that every
// file round trips.
//
// # Hints
//
// Set and map properties do not record the struct type of their elements.
// For those, [Decode] consults [Hints], keyed by property path. A path is
// the dotted sequence of property names from the root, with element
// indexes for arrays and sets and Key or Value segments for maps:
//
//	Inventory.Items=InventoryItem
//	Stats.Key=StatId
//	Players.0.Seen.Value=SeenInfo
//
// A path with its index segments removed also matches, so Players.Seen.Value
// covers every element of Players. A missing hint is an error wrapping
// [ErrMissingHint].
//
// # Game versions
//
// [Palworld] saves wrap the GVAS payload in zlib compressed PlZ framing. The
// save type byte is recorded in the header as palworld_save_type.
package gvas
