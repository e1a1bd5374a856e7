package gvas

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// writer appends little endian GVAS primitives to a buffer.
type writer struct {
	bytes.Buffer
}

func (w *writer) u8(v uint8) {
	w.WriteByte(v)
}

func (w *writer) u16(v uint16) {
	w.Write(binary.LittleEndian.AppendUint16(nil, v))
}

func (w *writer) u32(v uint32) {
	w.Write(binary.LittleEndian.AppendUint32(nil, v))
}

func (w *writer) u64(v uint64) {
	w.Write(binary.LittleEndian.AppendUint64(nil, v))
}

func (w *writer) i32(v int32) {
	w.u32(uint32(v))
}

func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *writer) f64(v float64) {
	w.u64(math.Float64bits(v))
}

// fstring writes s in single byte form when every rune is 7-bit and as
// UTF-16 otherwise.
func (w *writer) fstring(s string) {
	ansi := true
	for _, c := range s {
		if c >= 0x80 {
			ansi = false
			break
		}
	}
	if ansi {
		w.i32(int32(len(s) + 1))
		w.WriteString(s)
		w.u8(0)
		return
	}
	u := utf16.Encode([]rune(s))
	w.i32(-int32(len(u) + 1))
	for _, c := range u {
		w.u16(c)
	}
	w.u16(0)
}

func (w *writer) nullString() {
	w.i32(0)
}

func (w *writer) guid(b []byte) {
	w.Write(b)
}

func (w *writer) optGUID(g []byte) {
	if g == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.guid(g)
}
