package gvas

import (
	"fmt"
	"math"

	"github.com/signadot/gvas-format/debug"
	"github.com/signadot/gvas-format/ir"
)

type encoder struct {
	lwc bool
}

var zeroGUIDBytes = make([]byte, 16)

// properties writes the entries of bag followed by the None terminator.
func (e *encoder) properties(w *writer, bag *ir.Node) error {
	kvs, err := bag.KeyVals()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSchema, bag.Path(), err)
	}
	for _, kv := range kvs {
		if err := e.property(w, kv.Key, kv.Val); err != nil {
			return err
		}
	}
	w.fstring("None")
	return nil
}

func (e *encoder) property(w *writer, name string, p *ir.Node) error {
	typeName, err := stringField(p, "type")
	if err != nil {
		return err
	}
	var index int64
	if p.Get("array_index") != nil {
		if index, err = intField(p, "array_index", 0, math.MaxUint32); err != nil {
			return err
		}
	}
	guid, err := optGUIDField(p, "guid")
	if err != nil {
		return err
	}
	if debug.Encode() {
		debug.Logf("encode %s: %s offset=%d\n", p.Path(), typeName, w.Len())
	}
	kind := ParseKind(typeName)
	w.fstring(name)
	w.fstring(typeName)
	if kind == BoolKind {
		v, err := field(p, "value")
		if err != nil {
			return err
		}
		b, err := asBool(v)
		if err != nil {
			return err
		}
		w.u32(0)
		w.u32(uint32(index))
		w.u8(boolByte(b))
		w.optGUID(guid)
		return nil
	}

	tag, val := &writer{}, &writer{}
	if err := e.tag(tag, kind, p); err != nil {
		return err
	}
	if raw := p.Get("raw"); raw != nil {
		b, err := asBase64(raw)
		if err != nil {
			return err
		}
		val.Write(b)
	} else if err := e.value(val, kind, name, p); err != nil {
		return err
	}
	w.u32(uint32(val.Len()))
	w.u32(uint32(index))
	w.Write(tag.Bytes())
	w.optGUID(guid)
	w.Write(val.Bytes())
	return nil
}

// tag writes the type specific data that precedes the has-guid flag.
func (e *encoder) tag(w *writer, kind Kind, p *ir.Node) error {
	switch kind {
	case ByteKind:
		enum, ok, err := optStringField(p, "enum")
		if err != nil {
			return err
		}
		if !ok {
			enum = "None"
		}
		w.fstring(enum)
	case EnumKind:
		enum, err := stringField(p, "enum")
		if err != nil {
			return err
		}
		w.fstring(enum)
	case StructKind:
		structType, err := stringField(p, "struct")
		if err != nil {
			return err
		}
		sg, err := optGUIDField(p, "struct_guid")
		if err != nil {
			return err
		}
		if sg == nil {
			sg = zeroGUIDBytes
		}
		w.fstring(structType)
		w.guid(sg)
	case ArrayKind, SetKind:
		elem, err := stringField(p, "element")
		if err != nil {
			return err
		}
		w.fstring(elem)
	case MapKind:
		kt, err := stringField(p, "key_type")
		if err != nil {
			return err
		}
		vt, err := stringField(p, "value_type")
		if err != nil {
			return err
		}
		w.fstring(kt)
		w.fstring(vt)
	}
	return nil
}

func (e *encoder) value(w *writer, kind Kind, name string, p *ir.Node) error {
	switch kind {
	case UnknownKind:
		return fmt.Errorf("%w: %s: property type %s needs a raw value", ErrSchema, p.Path(), p.Get("type").String)
	case ByteKind:
		v, err := field(p, "value")
		if err != nil {
			return err
		}
		if p.Get("enum") == nil {
			i, err := asInt(v, 0, math.MaxUint8)
			if err != nil {
				return err
			}
			w.u8(uint8(i))
			return nil
		}
		s, err := asString(v)
		if err != nil {
			return err
		}
		w.fstring(s)
		return nil
	case EnumKind:
		s, err := stringField(p, "value")
		if err != nil {
			return err
		}
		w.fstring(s)
		return nil
	case StructKind:
		structType, _ := stringField(p, "struct")
		v, err := field(p, "value")
		if err != nil {
			return err
		}
		return e.structValue(w, structType, v)
	case ArrayKind:
		return e.arrayValue(w, name, p)
	case SetKind:
		return e.setValue(w, p)
	case MapKind:
		return e.mapValue(w, p)
	case StrKind, NameKind, ObjectKind:
		v := p.Get("value")
		if v == nil {
			w.nullString()
			return nil
		}
		return e.scalar(w, kind, v)
	}
	v, err := field(p, "value")
	if err != nil {
		return err
	}
	return e.scalar(w, kind, v)
}

func (e *encoder) arrayValue(w *writer, name string, p *ir.Node) error {
	elem, _ := stringField(p, "element")
	ek := ParseKind(elem)
	if !ek.isElement() {
		return fmt.Errorf("%w: %s: array of %s needs a raw value", ErrSchema, p.Path(), elem)
	}
	vn, err := field(p, "value")
	if err != nil {
		return err
	}
	if ek == ByteKind {
		b, err := asBase64(vn)
		if err != nil {
			return err
		}
		w.u32(uint32(len(b)))
		w.Write(b)
		return nil
	}
	elems, err := asArray(vn)
	if err != nil {
		return err
	}
	w.u32(uint32(len(elems)))
	if ek != StructKind {
		for _, v := range elems {
			if err := e.scalar(w, ek, v); err != nil {
				return err
			}
		}
		return nil
	}
	structType, err := stringField(p, "struct")
	if err != nil {
		return err
	}
	sg, err := optGUIDField(p, "struct_guid")
	if err != nil {
		return err
	}
	if sg == nil {
		sg = zeroGUIDBytes
	}
	innerName, ok, err := optStringField(p, "inner_name")
	if err != nil {
		return err
	}
	if !ok {
		innerName = name
	}
	body := &writer{}
	for _, v := range elems {
		if err := e.structValue(body, structType, v); err != nil {
			return err
		}
	}
	w.fstring(innerName)
	w.fstring("StructProperty")
	w.u32(uint32(body.Len()))
	w.u32(0)
	w.fstring(structType)
	w.guid(sg)
	w.u8(0)
	w.Write(body.Bytes())
	return nil
}

func (e *encoder) setValue(w *writer, p *ir.Node) error {
	elem, _ := stringField(p, "element")
	ek := ParseKind(elem)
	if !ek.isElement() {
		return fmt.Errorf("%w: %s: set of %s needs a raw value", ErrSchema, p.Path(), elem)
	}
	structType := ""
	if ek == StructKind {
		var err error
		if structType, err = stringField(p, "struct"); err != nil {
			return err
		}
	}
	vn, err := field(p, "value")
	if err != nil {
		return err
	}
	elems, err := asArray(vn)
	if err != nil {
		return err
	}
	w.u32(0)
	w.u32(uint32(len(elems)))
	for _, v := range elems {
		if err := e.element(w, ek, structType, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) mapValue(w *writer, p *ir.Node) error {
	kt, _ := stringField(p, "key_type")
	vt, _ := stringField(p, "value_type")
	kk, vk := ParseKind(kt), ParseKind(vt)
	if !kk.isElement() || !vk.isElement() {
		return fmt.Errorf("%w: %s: map of %s to %s needs a raw value", ErrSchema, p.Path(), kt, vt)
	}
	var keyStruct, valStruct string
	var err error
	if kk == StructKind {
		if keyStruct, err = stringField(p, "key_struct"); err != nil {
			return err
		}
	}
	if vk == StructKind {
		if valStruct, err = stringField(p, "value_struct"); err != nil {
			return err
		}
	}
	en, err := field(p, "entries")
	if err != nil {
		return err
	}
	entries, err := asArray(en)
	if err != nil {
		return err
	}
	w.u32(0)
	w.u32(uint32(len(entries)))
	for _, entry := range entries {
		k, err := field(entry, "key")
		if err != nil {
			return err
		}
		v, err := field(entry, "value")
		if err != nil {
			return err
		}
		if err := e.element(w, kk, keyStruct, k); err != nil {
			return err
		}
		if err := e.element(w, vk, valStruct, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) element(w *writer, kind Kind, structType string, v *ir.Node) error {
	if kind == StructKind {
		return e.structValue(w, structType, v)
	}
	return e.scalar(w, kind, v)
}

// scalar writes a value without tag data. Null nodes are null strings.
func (e *encoder) scalar(w *writer, kind Kind, v *ir.Node) error {
	if kind.isString() {
		if v.Type == ir.NullType {
			w.nullString()
			return nil
		}
		s, err := asString(v)
		if err != nil {
			return err
		}
		w.fstring(s)
		return nil
	}
	switch kind {
	case BoolKind:
		b, err := asBool(v)
		if err != nil {
			return err
		}
		w.u8(boolByte(b))
	case FloatKind:
		f, err := asFloat32(v)
		if err != nil {
			return err
		}
		w.f32(f)
	case DoubleKind:
		f, err := asFloat(v)
		if err != nil {
			return err
		}
		w.f64(f)
	case UInt64Kind:
		u, err := asUint64(v)
		if err != nil {
			return err
		}
		w.u64(u)
	default:
		r := intRanges[kind]
		i, err := asInt(v, r.lo, r.hi)
		if err != nil {
			return err
		}
		switch kind.fixedSize() {
		case 1:
			w.u8(uint8(i))
		case 2:
			w.u16(uint16(i))
		case 4:
			w.u32(uint32(i))
		default:
			w.u64(uint64(i))
		}
	}
	return nil
}

var intRanges = map[Kind]struct{ lo, hi int64 }{
	ByteKind:   {0, math.MaxUint8},
	Int8Kind:   {math.MinInt8, math.MaxInt8},
	Int16Kind:  {math.MinInt16, math.MaxInt16},
	IntKind:    {math.MinInt32, math.MaxInt32},
	Int64Kind:  {math.MinInt64, math.MaxInt64},
	UInt16Kind: {0, math.MaxUint16},
	UInt32Kind: {0, math.MaxUint32},
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
