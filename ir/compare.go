package ir

import "math"

// Equal reports whether a and b are the same tree: same node types, same
// scalars, same field order and keys. Parent links are ignored. Floats are
// compared by bit pattern so NaN equals NaN and 0.0 differs from -0.0.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		return equalNumbers(a, b)
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) || len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].String != b.Fields[i].String {
				return false
			}
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalNumbers(a, b *Node) bool {
	switch {
	case a.Int64 != nil:
		return b.Int64 != nil && *a.Int64 == *b.Int64
	case a.Uint64 != nil:
		return b.Uint64 != nil && *a.Uint64 == *b.Uint64
	case a.Float64 != nil:
		return b.Float64 != nil && math.Float64bits(*a.Float64) == math.Float64bits(*b.Float64)
	}
	return b.Int64 == nil && b.Uint64 == nil && b.Float64 == nil
}
