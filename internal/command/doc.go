// Package command builds the command line tools that convert between GVAS
// save files and JSON, YAML or TOML.
//
// Each tool is a single command; cmd/gvas2json and its siblings only pick
// the direction and the format.
package command
