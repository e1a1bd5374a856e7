package gvas

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const (
	palworldMagic      = "PlZ"
	palworldOodleMagic = "PlM"

	// Palworld save types. 0x31 frames one zlib stream, 0x32 a zlib stream
	// of a zlib stream.
	palworldSingleZlib = 0x31
	palworldDoubleZlib = 0x32

	palworldHeaderLen = 12
)

// unwrapPalworld strips the PlZ framing and returns the GVAS payload along
// with the save type byte.
func unwrapPalworld(data []byte) ([]byte, uint8, error) {
	if len(data) < palworldHeaderLen {
		return nil, 0, fmt.Errorf("%w: palworld header needs %d bytes, have %d", ErrTruncated, palworldHeaderLen, len(data))
	}
	ulen := binary.LittleEndian.Uint32(data[0:4])
	clen := binary.LittleEndian.Uint32(data[4:8])
	switch m := string(data[8:11]); m {
	case palworldMagic:
	case palworldOodleMagic:
		return nil, 0, fmt.Errorf("%w: oodle compressed palworld saves", ErrUnsupported)
	default:
		return nil, 0, fmt.Errorf("%w: bad palworld magic %q", ErrDecode, m)
	}
	saveType := data[11]
	body := data[palworldHeaderLen:]
	var (
		out []byte
		err error
	)
	switch saveType {
	case palworldSingleZlib:
		if int(clen) != len(body) {
			return nil, 0, fmt.Errorf("%w: palworld compressed length %d, have %d bytes", ErrDecode, clen, len(body))
		}
		out, err = inflate(body)
	case palworldDoubleZlib:
		var inner []byte
		if inner, err = inflate(body); err != nil {
			break
		}
		if int(clen) != len(inner) {
			return nil, 0, fmt.Errorf("%w: palworld compressed length %d, have %d bytes", ErrDecode, clen, len(inner))
		}
		out, err = inflate(inner)
	default:
		return nil, 0, fmt.Errorf("%w: palworld save type %#x", ErrUnsupported, saveType)
	}
	if err != nil {
		return nil, 0, err
	}
	if int(ulen) != len(out) {
		return nil, 0, fmt.Errorf("%w: palworld uncompressed length %d, have %d bytes", ErrDecode, ulen, len(out))
	}
	return out, saveType, nil
}

// wrapPalworld compresses a GVAS payload into PlZ framing.
func wrapPalworld(gvas []byte, saveType uint8) ([]byte, error) {
	var body []byte
	var clen int
	switch saveType {
	case palworldSingleZlib:
		body = deflate(gvas)
		clen = len(body)
	case palworldDoubleZlib:
		inner := deflate(gvas)
		clen = len(inner)
		body = deflate(inner)
	default:
		return nil, fmt.Errorf("%w: palworld save type %#x", ErrEncode, saveType)
	}
	out := make([]byte, 0, palworldHeaderLen+len(body))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(gvas)))
	out = binary.LittleEndian.AppendUint32(out, uint32(clen))
	out = append(out, palworldMagic...)
	out = append(out, saveType)
	return append(out, body...), nil
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrDecode, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrDecode, err)
	}
	return out, nil
}

func deflate(b []byte) []byte {
	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	// writes to a bytes.Buffer do not fail
	zw.Write(b)
	zw.Close()
	return buf.Bytes()
}
