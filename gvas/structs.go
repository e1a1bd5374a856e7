package gvas

import (
	"fmt"
	"math"
	"strconv"

	"github.com/signadot/gvas-format/ir"
)

type fieldKind int

const (
	// worldFloat is a float32, or a float64 in files that use large world
	// coordinates.
	worldFloat fieldKind = iota
	float32Field
	byteField
	int32Field
)

// layout describes a struct stored as a fixed sequence of numbers rather
// than as a property bag.
type layout struct {
	kind   fieldKind
	fields []string
}

var layouts = map[string]layout{
	"Vector":      {worldFloat, []string{"x", "y", "z"}},
	"Vector2D":    {worldFloat, []string{"x", "y"}},
	"Vector4":     {worldFloat, []string{"x", "y", "z", "w"}},
	"Rotator":     {worldFloat, []string{"pitch", "yaw", "roll"}},
	"Quat":        {worldFloat, []string{"x", "y", "z", "w"}},
	"LinearColor": {float32Field, []string{"r", "g", "b", "a"}},
	"Color":       {byteField, []string{"b", "g", "r", "a"}},
	"IntPoint":    {int32Field, []string{"x", "y"}},
	"IntVector":   {int32Field, []string{"x", "y", "z"}},
}

// structValue reads the value of a struct of the given type. Types without
// a known layout are property bags.
func (d *decoder) structValue(structType string) (*ir.Node, error) {
	switch structType {
	case "Guid":
		g, err := d.r.guid()
		if err != nil {
			return nil, err
		}
		return ir.FromString(g), nil
	case "DateTime", "Timespan":
		v, err := d.r.u64()
		if err != nil {
			return nil, err
		}
		return ir.FromInt(int64(v)), nil
	}
	l, ok := layouts[structType]
	if !ok {
		return d.properties()
	}
	obj := ir.NewObject()
	for _, f := range l.fields {
		var v *ir.Node
		switch l.kind {
		case worldFloat:
			if d.lwc {
				x, err := d.r.f64()
				if err != nil {
					return nil, err
				}
				v = ir.FromFloat(x)
				break
			}
			fallthrough
		case float32Field:
			x, err := d.r.f32()
			if err != nil {
				return nil, err
			}
			v = float32Node(x)
		case byteField:
			x, err := d.r.u8()
			if err != nil {
				return nil, err
			}
			v = ir.FromInt(int64(x))
		case int32Field:
			x, err := d.r.i32()
			if err != nil {
				return nil, err
			}
			v = ir.FromInt(int64(x))
		}
		obj.Append(f, v)
	}
	return obj, nil
}

func (e *encoder) structValue(w *writer, structType string, v *ir.Node) error {
	switch structType {
	case "Guid":
		s, err := asString(v)
		if err != nil {
			return err
		}
		g, err := parseGUID(s)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSchema, v.Path(), err)
		}
		w.guid(g)
		return nil
	case "DateTime", "Timespan":
		i, err := asInt(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		w.u64(uint64(i))
		return nil
	}
	l, ok := layouts[structType]
	if !ok {
		return e.properties(w, v)
	}
	for _, f := range l.fields {
		fv, err := field(v, f)
		if err != nil {
			return err
		}
		switch l.kind {
		case worldFloat:
			if e.lwc {
				x, err := asFloat(fv)
				if err != nil {
					return err
				}
				w.f64(x)
				break
			}
			fallthrough
		case float32Field:
			x, err := asFloat32(fv)
			if err != nil {
				return err
			}
			w.f32(x)
		case byteField:
			x, err := asInt(fv, 0, math.MaxUint8)
			if err != nil {
				return err
			}
			w.u8(uint8(x))
		case int32Field:
			x, err := asInt(fv, math.MinInt32, math.MaxInt32)
			if err != nil {
				return err
			}
			w.i32(int32(x))
		}
	}
	return nil
}

// float32Node stores f as the shortest float64 that prints the same as f,
// so 0.1 stays 0.1 in text output.
func float32Node(f float32) *ir.Node {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ir.FromFloat(x)
	}
	x, _ = strconv.ParseFloat(strconv.FormatFloat(x, 'g', -1, 32), 64)
	return ir.FromFloat(x)
}

func asFloat32(v *ir.Node) (float32, error) {
	x, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return float32(x), nil
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', -1, 64), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v does not fit a float32", ErrEncode, v.Path(), x)
	}
	return float32(f), nil
}
