package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/gvas-format/ir"
)

// intNode parses an integer literal, keeping values above math.MaxInt64
// as a uint64.
func intNode(s string, base int) (*ir.Node, error) {
	if i, err := strconv.ParseInt(s, base, 64); err == nil {
		return ir.FromInt(i), nil
	}
	u, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), base, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: integer %s out of range", ErrFormat, s)
	}
	return ir.FromUint(u), nil
}

func floatNode(s string) (*ir.Node, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad float %s", ErrFormat, s)
	}
	return ir.FromFloat(f), nil
}
