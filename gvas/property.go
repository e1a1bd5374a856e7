package gvas

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/gvas-format/debug"
	"github.com/signadot/gvas-format/ir"
)

// errRawFallback makes a property value round trip as raw bytes.
var errRawFallback = errors.New("raw fallback")

type decoder struct {
	r     *reader
	hints Hints
	lwc   bool
	path  []string
}

func (d *decoder) push(seg string) {
	d.path = append(d.path, seg)
}

func (d *decoder) pop() {
	d.path = d.path[:len(d.path)-1]
}

func (d *decoder) pathString() string {
	return strings.Join(d.path, ".")
}

// hint resolves the struct type of set or map elements at the current path
// extended by segs.
func (d *decoder) hint(segs ...string) (string, error) {
	p := make([]string, 0, len(d.path)+len(segs))
	p = append(p, d.path...)
	p = append(p, segs...)
	tag, ok := d.hints.lookup(p)
	if !ok {
		return "", fmt.Errorf("%w for %s; supply -t %s=<StructType>", ErrMissingHint, strings.Join(p, "."), strings.Join(p, "."))
	}
	return tag, nil
}

// properties reads a property bag up to its None terminator.
func (d *decoder) properties() (*ir.Node, error) {
	bag := ir.NewObject()
	for {
		name, err := d.r.name()
		if err != nil {
			return nil, err
		}
		if name == "None" {
			return bag, nil
		}
		p, err := d.property(name)
		if err != nil {
			return nil, err
		}
		bag.Append(name, p)
	}
}

func (d *decoder) property(name string) (*ir.Node, error) {
	d.push(name)
	defer d.pop()
	at := d.r.pos
	p, err := d.readProperty(name)
	if err != nil {
		var pe *PropertyError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &PropertyError{Path: d.pathString(), Offset: at, Err: err}
	}
	return p, nil
}

func (d *decoder) readProperty(name string) (*ir.Node, error) {
	typeName, err := d.r.name()
	if err != nil {
		return nil, err
	}
	size, err := d.r.u32()
	if err != nil {
		return nil, err
	}
	index, err := d.r.u32()
	if err != nil {
		return nil, err
	}
	if debug.Decode() {
		debug.Logf("decode %s: %s size=%d offset=%d\n", d.pathString(), typeName, size, d.r.pos)
	}
	p := ir.NewObject().Append("type", ir.FromString(typeName))
	if index != 0 {
		p.Append("array_index", ir.FromInt(int64(index)))
	}
	kind := ParseKind(typeName)
	switch kind {
	case BoolKind:
		return p, d.boolProperty(p, size)
	case ByteKind:
		return p, d.byteProperty(p, size)
	case EnumKind:
		return p, d.enumProperty(p, size)
	case StructKind:
		return p, d.structProperty(p, size)
	case ArrayKind:
		return p, d.arrayProperty(p, name, size)
	case SetKind:
		return p, d.setProperty(p, size)
	case MapKind:
		return p, d.mapProperty(p, size)
	case UnknownKind:
		if err := d.guid(p); err != nil {
			return nil, err
		}
		return p, d.value(p, size, func() ([]ir.KeyVal, error) {
			return nil, errRawFallback
		})
	default:
		return p, d.scalarProperty(p, kind, size)
	}
}

// guid reads the has-guid flag and records the guid when present.
func (d *decoder) guid(p *ir.Node) error {
	g, ok, err := d.r.optGUID()
	if err != nil {
		return err
	}
	if ok {
		p.Append("guid", ir.FromString(g))
	}
	return nil
}

// value runs read over the size bytes of a property value, which read may
// not overrun. The fields it returns are added to p when read consumed
// exactly size bytes and encoding them gives back the same bytes.
// Otherwise the value is kept as raw bytes. Missing hints stay fatal.
func (d *decoder) value(p *ir.Node, size uint32, read func() ([]ir.KeyVal, error)) error {
	start := d.r.pos
	if int64(size) > int64(d.r.remaining()) {
		_, err := d.r.take(int(size))
		return err
	}
	end := start + int(size)
	full := d.r.buf
	d.r.buf = full[:end]
	kvs, err := read()
	d.r.buf = full
	if errors.Is(err, ErrMissingHint) {
		return err
	}
	if err == nil && d.r.pos == end && d.reproduces(p, kvs, full[start:end]) {
		for _, kv := range kvs {
			p.Append(kv.Key, kv.Val)
		}
		return nil
	}
	if debug.Decode() {
		debug.Logf("decode %s: keeping %d raw bytes (%v)\n", d.pathString(), size, err)
	}
	d.r.pos = end
	p.Append("raw", ir.FromString(base64.StdEncoding.EncodeToString(full[start:end])))
	return nil
}

// reproduces reports whether p with the fields kvs encodes to b. Strings
// stored in a form the writer would not choose, such as single byte text
// above 0x7f or UTF-16 that is plain ASCII, fail this check.
func (d *decoder) reproduces(p *ir.Node, kvs []ir.KeyVal, b []byte) bool {
	q := p.Clone()
	q.Parent = nil
	for _, kv := range kvs {
		q.Append(kv.Key, kv.Val)
	}
	w := &writer{}
	e := &encoder{lwc: d.lwc}
	if err := e.value(w, ParseKind(q.Get("type").String), d.path[len(d.path)-1], q); err != nil {
		return false
	}
	return bytes.Equal(w.Bytes(), b)
}

func (d *decoder) boolProperty(p *ir.Node, size uint32) error {
	v, err := d.r.u8()
	if err != nil {
		return err
	}
	if v > 1 {
		return fmt.Errorf("%w: bool value %d", ErrDecode, v)
	}
	if size != 0 {
		return fmt.Errorf("%w: bool property with size %d", ErrDecode, size)
	}
	if err := d.guid(p); err != nil {
		return err
	}
	p.Append("value", ir.FromBool(v == 1))
	return nil
}

func (d *decoder) byteProperty(p *ir.Node, size uint32) error {
	enum, err := d.r.name()
	if err != nil {
		return err
	}
	if enum != "None" {
		p.Append("enum", ir.FromString(enum))
	}
	if err := d.guid(p); err != nil {
		return err
	}
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		if enum == "None" {
			v, err := d.r.u8()
			if err != nil {
				return nil, err
			}
			return []ir.KeyVal{{Key: "value", Val: ir.FromInt(int64(v))}}, nil
		}
		v, err := d.r.name()
		if err != nil {
			return nil, err
		}
		return []ir.KeyVal{{Key: "value", Val: ir.FromString(v)}}, nil
	})
}

func (d *decoder) enumProperty(p *ir.Node, size uint32) error {
	enum, err := d.r.name()
	if err != nil {
		return err
	}
	p.Append("enum", ir.FromString(enum))
	if err := d.guid(p); err != nil {
		return err
	}
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		v, err := d.r.name()
		if err != nil {
			return nil, err
		}
		return []ir.KeyVal{{Key: "value", Val: ir.FromString(v)}}, nil
	})
}

func (d *decoder) scalarProperty(p *ir.Node, kind Kind, size uint32) error {
	if err := d.guid(p); err != nil {
		return err
	}
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		v, err := d.scalar(kind)
		if err != nil {
			return nil, err
		}
		if v.Type == ir.NullType {
			return nil, nil
		}
		return []ir.KeyVal{{Key: "value", Val: v}}, nil
	})
}

func (d *decoder) structProperty(p *ir.Node, size uint32) error {
	structType, err := d.r.name()
	if err != nil {
		return err
	}
	structGUID, err := d.r.guid()
	if err != nil {
		return err
	}
	p.Append("struct", ir.FromString(structType))
	if !isZeroGUID(structGUID) {
		p.Append("struct_guid", ir.FromString(structGUID))
	}
	if err := d.guid(p); err != nil {
		return err
	}
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		v, err := d.structValue(structType)
		if err != nil {
			return nil, err
		}
		return []ir.KeyVal{{Key: "value", Val: v}}, nil
	})
}

func (d *decoder) arrayProperty(p *ir.Node, name string, size uint32) error {
	elemType, err := d.r.name()
	if err != nil {
		return err
	}
	p.Append("element", ir.FromString(elemType))
	if err := d.guid(p); err != nil {
		return err
	}
	ek := ParseKind(elemType)
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		if !ek.isElement() {
			return nil, errRawFallback
		}
		count, err := d.r.u32()
		if err != nil {
			return nil, err
		}
		if fs := ek.fixedSize(); fs != 0 && 4+uint64(count)*uint64(fs) != uint64(size) {
			return nil, errRawFallback
		}
		switch ek {
		case ByteKind:
			b, err := d.r.take(int(count))
			if err != nil {
				return nil, err
			}
			return []ir.KeyVal{{Key: "value", Val: ir.FromString(base64.StdEncoding.EncodeToString(b))}}, nil
		case StructKind:
			return d.structArray(name, count)
		}
		arr := ir.NewArray()
		for i := uint32(0); i < count; i++ {
			v, err := d.scalar(ek)
			if err != nil {
				return nil, err
			}
			arr.Push(v)
		}
		return []ir.KeyVal{{Key: "value", Val: arr}}, nil
	})
}

// structArray reads the inner struct header of an array of structs and
// its elements.
func (d *decoder) structArray(name string, count uint32) ([]ir.KeyVal, error) {
	innerName, err := d.r.name()
	if err != nil {
		return nil, err
	}
	innerType, err := d.r.name()
	if err != nil {
		return nil, err
	}
	if innerType != "StructProperty" {
		return nil, errRawFallback
	}
	innerSize, err := d.r.u32()
	if err != nil {
		return nil, err
	}
	innerIndex, err := d.r.u32()
	if err != nil {
		return nil, err
	}
	structType, err := d.r.name()
	if err != nil {
		return nil, err
	}
	structGUID, err := d.r.guid()
	if err != nil {
		return nil, err
	}
	hasGUID, err := d.r.u8()
	if err != nil {
		return nil, err
	}
	if innerIndex != 0 || hasGUID != 0 {
		return nil, errRawFallback
	}
	kvs := []ir.KeyVal{{Key: "struct", Val: ir.FromString(structType)}}
	if !isZeroGUID(structGUID) {
		kvs = append(kvs, ir.KeyVal{Key: "struct_guid", Val: ir.FromString(structGUID)})
	}
	if innerName != name {
		kvs = append(kvs, ir.KeyVal{Key: "inner_name", Val: ir.FromString(innerName)})
	}
	start := d.r.pos
	arr := ir.NewArray()
	for i := uint32(0); i < count; i++ {
		d.push(strconv.FormatUint(uint64(i), 10))
		v, err := d.structValue(structType)
		d.pop()
		if err != nil {
			return nil, err
		}
		arr.Push(v)
	}
	if d.r.pos-start != int(innerSize) {
		return nil, errRawFallback
	}
	return append(kvs, ir.KeyVal{Key: "value", Val: arr}), nil
}

func (d *decoder) setProperty(p *ir.Node, size uint32) error {
	elemType, err := d.r.name()
	if err != nil {
		return err
	}
	p.Append("element", ir.FromString(elemType))
	if err := d.guid(p); err != nil {
		return err
	}
	ek := ParseKind(elemType)
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		if !ek.isElement() {
			return nil, errRawFallback
		}
		removed, err := d.r.u32()
		if err != nil {
			return nil, err
		}
		if removed != 0 {
			return nil, errRawFallback
		}
		count, err := d.r.u32()
		if err != nil {
			return nil, err
		}
		var kvs []ir.KeyVal
		structType := ""
		if ek == StructKind {
			if structType, err = d.hint(); err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: "struct", Val: ir.FromString(structType)})
		}
		arr := ir.NewArray()
		for i := uint32(0); i < count; i++ {
			d.push(strconv.FormatUint(uint64(i), 10))
			v, err := d.element(ek, structType)
			d.pop()
			if err != nil {
				return nil, err
			}
			arr.Push(v)
		}
		return append(kvs, ir.KeyVal{Key: "value", Val: arr}), nil
	})
}

func (d *decoder) mapProperty(p *ir.Node, size uint32) error {
	keyType, err := d.r.name()
	if err != nil {
		return err
	}
	valueType, err := d.r.name()
	if err != nil {
		return err
	}
	p.Append("key_type", ir.FromString(keyType))
	p.Append("value_type", ir.FromString(valueType))
	if err := d.guid(p); err != nil {
		return err
	}
	kk, vk := ParseKind(keyType), ParseKind(valueType)
	return d.value(p, size, func() ([]ir.KeyVal, error) {
		if !kk.isElement() || !vk.isElement() {
			return nil, errRawFallback
		}
		removed, err := d.r.u32()
		if err != nil {
			return nil, err
		}
		if removed != 0 {
			return nil, errRawFallback
		}
		count, err := d.r.u32()
		if err != nil {
			return nil, err
		}
		var (
			kvs                  []ir.KeyVal
			keyStruct, valStruct string
		)
		if kk == StructKind {
			if keyStruct, err = d.hint("Key"); err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: "key_struct", Val: ir.FromString(keyStruct)})
		}
		if vk == StructKind {
			if valStruct, err = d.hint("Value"); err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: "value_struct", Val: ir.FromString(valStruct)})
		}
		entries := ir.NewArray()
		for i := uint32(0); i < count; i++ {
			idx := strconv.FormatUint(uint64(i), 10)
			d.push("Key")
			d.push(idx)
			k, err := d.element(kk, keyStruct)
			d.pop()
			d.pop()
			if err != nil {
				return nil, err
			}
			d.push("Value")
			d.push(idx)
			v, err := d.element(vk, valStruct)
			d.pop()
			d.pop()
			if err != nil {
				return nil, err
			}
			entries.Push(ir.NewObject().Append("key", k).Append("value", v))
		}
		return append(kvs, ir.KeyVal{Key: "entries", Val: entries}), nil
	})
}

func (d *decoder) element(kind Kind, structType string) (*ir.Node, error) {
	if kind == StructKind {
		return d.structValue(structType)
	}
	return d.scalar(kind)
}

// scalar reads a value that has no tag data of its own. Null strings are
// returned as null nodes.
func (d *decoder) scalar(kind Kind) (*ir.Node, error) {
	switch kind {
	case BoolKind:
		v, err := d.r.u8()
		if err != nil {
			return nil, err
		}
		if v > 1 {
			return nil, fmt.Errorf("%w: bool value %d", ErrDecode, v)
		}
		return ir.FromBool(v == 1), nil
	case ByteKind:
		v, err := d.r.u8()
		return ir.FromInt(int64(v)), err
	case Int8Kind:
		v, err := d.r.u8()
		return ir.FromInt(int64(int8(v))), err
	case Int16Kind:
		v, err := d.r.u16()
		return ir.FromInt(int64(int16(v))), err
	case IntKind:
		v, err := d.r.i32()
		return ir.FromInt(int64(v)), err
	case Int64Kind:
		v, err := d.r.u64()
		return ir.FromInt(int64(v)), err
	case UInt16Kind:
		v, err := d.r.u16()
		return ir.FromInt(int64(v)), err
	case UInt32Kind:
		v, err := d.r.u32()
		return ir.FromInt(int64(v)), err
	case UInt64Kind:
		v, err := d.r.u64()
		return ir.FromUint(v), err
	case FloatKind:
		v, err := d.r.f32()
		return float32Node(v), err
	case DoubleKind:
		v, err := d.r.f64()
		return ir.FromFloat(v), err
	case StrKind, NameKind, ObjectKind, EnumKind:
		s, null, err := d.r.fstring()
		if err != nil {
			return nil, err
		}
		if null {
			return ir.Null(), nil
		}
		return ir.FromString(s), nil
	}
	return nil, errRawFallback
}
