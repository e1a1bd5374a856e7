package parse

import (
	"fmt"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/ir"
)

// Parse reads a single document from d. The format defaults to JSON.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{format: format.JSONFormat}
	for _, f := range opts {
		f(pOpts)
	}
	switch pOpts.format {
	case format.JSONFormat:
		return parseJSON(d)
	case format.YAMLFormat:
		return parseYAML(d)
	case format.TOMLFormat:
		return parseTOML(d)
	}
	return nil, fmt.Errorf("%w: unknown format %d", ErrFormat, pOpts.format)
}

func ParseString(s string, opts ...ParseOption) (*ir.Node, error) {
	return Parse([]byte(s), opts...)
}
