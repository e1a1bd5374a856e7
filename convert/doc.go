// Package convert runs the conversions between GVAS save files and text.
//
// Decoding reads the whole save, decodes it with package gvas, encodes the
// tree as JSON, YAML or TOML and hands the text to a render.Renderer.
// Encoding runs the same steps backwards and writes the raw save bytes.
// Each step either succeeds or aborts the conversion; nothing is written
// for a conversion that fails.
package convert
