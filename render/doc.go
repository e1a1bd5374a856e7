// Package render writes converted text to its destination.
//
// A [Renderer] writes to an output file when one is configured, otherwise
// to its writer. When the writer is a terminal the text is shown through
// $PAGER (less by default, with LESS=FRX unless LESS is set), and JSON is
// colorized according to the [ColorMode]. NO_COLOR is honoured in auto
// mode.
package render
