package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Int64   *int64
	Uint64  *uint64
	Float64 *float64
}

type KeyVal struct {
	Key string
	Val *Node
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Values = make([]*Node, len(y.Values))
	dst.Fields = make([]*Node, len(y.Fields))
	for i, yv := range y.Values {
		dstI := &Node{}
		yv.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := &Node{}
		yf.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yf.String
		dst.Fields[i] = dstI
	}

	dst.String = y.String
	dst.Bool = y.Bool
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	if y.Uint64 != nil {
		u := *y.Uint64
		dst.Uint64 = &u
	}
	return dst
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

// FromUint stores v as an Int64 whenever it fits so that equal values
// compare equal regardless of the width they were read with.
func FromUint(v uint64) *Node {
	if v <= math.MaxInt64 {
		return FromInt(int64(v))
	}
	return &Node{
		Type:   NumberType,
		Uint64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromSlice(ns []*Node) *Node {
	res := &Node{Type: ArrayType, Values: make([]*Node, 0, len(ns))}
	for _, n := range ns {
		res.Push(n)
	}
	return res
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := NewObject()
	for _, kv := range kvs {
		res.Append(kv.Key, kv.Val)
	}
	return res
}

func NewObject() *Node {
	return &Node{Type: ObjectType}
}

func NewArray() *Node {
	return &Node{Type: ArrayType}
}

// Append adds a field to the end of an object node and returns the object.
// Existing fields with the same key are kept.
func (y *Node) Append(key string, v *Node) *Node {
	if y.Type != ObjectType {
		panic(fmt.Sprintf("append %q to %s", key, y.Type))
	}
	i := len(y.Values)
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = key
	y.Fields = append(y.Fields, &Node{
		Type:        StringType,
		String:      key,
		Parent:      y,
		ParentIndex: i,
		ParentField: key,
	})
	y.Values = append(y.Values, v)
	return y
}

// Push appends v to an array node and returns the array.
func (y *Node) Push(v *Node) *Node {
	if y.Type != ArrayType {
		panic(fmt.Sprintf("push to %s", y.Type))
	}
	v.Parent = y
	v.ParentIndex = len(y.Values)
	y.Values = append(y.Values, v)
	return y
}

// Get returns the value of the first field named key, or nil.
func (y *Node) Get(key string) *Node {
	if y == nil || y.Type != ObjectType {
		return nil
	}
	for i, f := range y.Fields {
		if f.String == key {
			return y.Values[i]
		}
	}
	return nil
}

// KeyVals returns the fields of an object node in order.
func (y *Node) KeyVals() ([]KeyVal, error) {
	if y.Type != ObjectType {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotObject, y.Type, y.Path())
	}
	res := make([]KeyVal, len(y.Fields))
	for i, f := range y.Fields {
		res[i] = KeyVal{Key: f.String, Val: y.Values[i]}
	}
	return res, nil
}

// Elems returns the values of an array node.
func (y *Node) Elems() ([]*Node, error) {
	if y.Type != ArrayType {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotArray, y.Type, y.Path())
	}
	return y.Values, nil
}

// NumberString renders a number node in its canonical textual form. Floats
// always carry a decimal point or an exponent so that they read back as
// floats; non-finite floats are rendered as Go renders them.
func (y *Node) NumberString() string {
	switch {
	case y.Int64 != nil:
		return strconv.FormatInt(*y.Int64, 10)
	case y.Uint64 != nil:
		return strconv.FormatUint(*y.Uint64, 10)
	case y.Float64 != nil:
		return FormatFloat(*y.Float64)
	}
	return "0"
}

func (y *Node) IsFloat() bool {
	return y.Type == NumberType && y.Float64 != nil
}

// FormatFloat renders f in its shortest exact form. The mantissa always
// has a decimal point, so the result reads back as a float in JSON, YAML
// and TOML.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-5 && abs < 1e21) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	return mant + "e" + exp
}
