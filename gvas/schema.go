package gvas

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/signadot/gvas-format/ir"
)

// Accessors used while encoding a document. Shape problems are ErrSchema,
// values that do not fit their declared binary type are ErrEncode.

func field(n *ir.Node, key string) (*ir.Node, error) {
	if n.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: %s is %s, want Object", ErrSchema, n.Path(), n.Type)
	}
	v := n.Get(key)
	if v == nil {
		return nil, fmt.Errorf("%w: %s is missing %q", ErrSchema, n.Path(), key)
	}
	return v, nil
}

func stringField(n *ir.Node, key string) (string, error) {
	v, err := field(n, key)
	if err != nil {
		return "", err
	}
	return asString(v)
}

func optStringField(n *ir.Node, key string) (string, bool, error) {
	v := n.Get(key)
	if v == nil {
		return "", false, nil
	}
	s, err := asString(v)
	return s, err == nil, err
}

func intField(n *ir.Node, key string, lo, hi int64) (int64, error) {
	v, err := field(n, key)
	if err != nil {
		return 0, err
	}
	return asInt(v, lo, hi)
}

func optGUIDField(n *ir.Node, key string) ([]byte, error) {
	s, ok, err := optStringField(n, key)
	if err != nil || !ok {
		return nil, err
	}
	g, err := parseGUID(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchema, n.Get(key).Path(), err)
	}
	return g, nil
}

func asString(v *ir.Node) (string, error) {
	if v.Type != ir.StringType {
		return "", fmt.Errorf("%w: %s is %s, want String", ErrSchema, v.Path(), v.Type)
	}
	return v.String, nil
}

func asBool(v *ir.Node) (bool, error) {
	if v.Type != ir.BoolType {
		return false, fmt.Errorf("%w: %s is %s, want Bool", ErrSchema, v.Path(), v.Type)
	}
	return v.Bool, nil
}

func asInt(v *ir.Node, lo, hi int64) (int64, error) {
	if v.Type != ir.NumberType || v.IsFloat() {
		return 0, fmt.Errorf("%w: %s is %s, want an integer", ErrSchema, v.Path(), describe(v))
	}
	if v.Uint64 != nil {
		return 0, fmt.Errorf("%w: %s: %d out of range [%d, %d]", ErrEncode, v.Path(), *v.Uint64, lo, hi)
	}
	i := *v.Int64
	if i < lo || i > hi {
		return 0, fmt.Errorf("%w: %s: %d out of range [%d, %d]", ErrEncode, v.Path(), i, lo, hi)
	}
	return i, nil
}

func asUint64(v *ir.Node) (uint64, error) {
	if v.Type == ir.NumberType && v.Uint64 != nil {
		return *v.Uint64, nil
	}
	i, err := asInt(v, 0, math.MaxInt64)
	return uint64(i), err
}

// asFloat accepts integers too, so hand edited documents may write 1 for
// 1.0.
func asFloat(v *ir.Node) (float64, error) {
	if v.Type != ir.NumberType {
		return 0, fmt.Errorf("%w: %s is %s, want a number", ErrSchema, v.Path(), v.Type)
	}
	switch {
	case v.Float64 != nil:
		return *v.Float64, nil
	case v.Int64 != nil:
		return float64(*v.Int64), nil
	default:
		return float64(*v.Uint64), nil
	}
}

func asArray(v *ir.Node) ([]*ir.Node, error) {
	elems, err := v.Elems()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return elems, nil
}

func asBase64(v *ir.Node) ([]byte, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchema, v.Path(), err)
	}
	return b, nil
}

func describe(v *ir.Node) string {
	if v.IsFloat() {
		return "a float"
	}
	return v.Type.String()
}
