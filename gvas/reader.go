package gvas

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
)

// reader reads little endian GVAS primitives from a fully buffered input.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.pos, r.remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	return math.Float32frombits(v), err
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	return math.Float64frombits(v), err
}

// fstring reads an FString. A zero length marks a null string. Positive
// lengths are single byte strings, negative lengths UTF-16; both count a
// terminating NUL.
func (r *reader) fstring() (s string, null bool, err error) {
	at := r.pos
	n, err := r.i32()
	if err != nil {
		return "", false, err
	}
	switch {
	case n == 0:
		return "", true, nil
	case n > 0:
		b, err := r.take(int(n))
		if err != nil {
			return "", false, err
		}
		if b[n-1] != 0 {
			return "", false, fmt.Errorf("%w: string at offset %d is not NUL terminated", ErrDecode, at)
		}
		rs := make([]rune, n-1)
		for i, c := range b[:n-1] {
			rs[i] = rune(c)
		}
		return string(rs), false, nil
	default:
		if n == math.MinInt32 {
			return "", false, fmt.Errorf("%w: bad string length at offset %d", ErrDecode, at)
		}
		count := int(-n)
		b, err := r.take(2 * count)
		if err != nil {
			return "", false, err
		}
		u := make([]uint16, count)
		for i := range u {
			u[i] = binary.LittleEndian.Uint16(b[2*i:])
		}
		if u[count-1] != 0 {
			return "", false, fmt.Errorf("%w: string at offset %d is not NUL terminated", ErrDecode, at)
		}
		return string(utf16.Decode(u[:count-1])), false, nil
	}
}

// name reads an FString that may not be null, such as a property or type
// name.
func (r *reader) name() (string, error) {
	at := r.pos
	s, null, err := r.fstring()
	if err != nil {
		return "", err
	}
	if null {
		return "", fmt.Errorf("%w: null name at offset %d", ErrDecode, at)
	}
	return s, nil
}

func (r *reader) guid() (string, error) {
	b, err := r.take(16)
	if err != nil {
		return "", err
	}
	return formatGUID(b), nil
}

// optGUID reads the has-guid flag of a property tag and the guid that
// follows it when set.
func (r *reader) optGUID() (string, bool, error) {
	at := r.pos
	has, err := r.u8()
	if err != nil {
		return "", false, err
	}
	switch has {
	case 0:
		return "", false, nil
	case 1:
		g, err := r.guid()
		return g, true, err
	default:
		return "", false, fmt.Errorf("%w: bad guid flag %d at offset %d", ErrDecode, has, at)
	}
}

func formatGUID(b []byte) string {
	h := strings.ToUpper(hex.EncodeToString(b))
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}

func parseGUID(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(s, "-", ""))
	if err != nil {
		return nil, err
	}
	if len(b) != 16 {
		return nil, fmt.Errorf("guid %q has %d bytes, want 16", s, len(b))
	}
	return b, nil
}

func isZeroGUID(s string) bool {
	return s == zeroGUID
}

const zeroGUID = "00000000-0000-0000-0000-000000000000"
