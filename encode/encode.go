package encode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/ir"
)

type EncState struct {
	depth, indent int
	pretty        bool

	format format.Format
	buf    bytes.Buffer

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w in the selected format, followed by a newline.
// Nothing is written when node cannot be represented in the format.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
		pretty: true,
	}
	for _, opt := range opts {
		opt(es)
	}
	if !es.format.IsJSON() {
		es.Color = nil
	}
	var err error
	switch es.format {
	case format.JSONFormat:
		err = encodeJSON(node, es)
	case format.YAMLFormat:
		err = encodeYAML(node, es)
	case format.TOMLFormat:
		err = encodeTOML(node, es)
	default:
		err = fmt.Errorf("%w: unknown format %s", ErrEncoding, es.format)
	}
	if err != nil {
		return err
	}
	es.buf.WriteByte('\n')
	_, err = w.Write(es.buf.Bytes())
	return err
}

// EncodeString returns the text Encode would write.
func EncodeString(node *ir.Node, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func MustString(node *ir.Node, opts ...EncodeOption) string {
	s, err := EncodeString(node, opts...)
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(s)
}

func (es *EncState) write(s string) {
	es.buf.WriteString(s)
}

func (es *EncState) indentString(depth int) string {
	return strings.Repeat(" ", es.indent*depth)
}

// Color application helpers

func applyColor(es *EncState, nodeType ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(nodeType, attr, v)
}

func applyValueColor(es *EncState, nodeType ir.Type, v string) string {
	return applyColor(es, nodeType, ValueColor, v)
}

// quote double quotes v using the escapes common to JSON, YAML and TOML
// basic strings.
func quote(v string) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case '"':
			d = append(d, '\\', '"')
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	return string(append(d, '"'))
}

// numberText renders a number node. Floats always carry a decimal point or
// an exponent so they read back as floats.
func numberText(node *ir.Node, f format.Format) (string, error) {
	switch {
	case node.Int64 != nil:
		return strconv.FormatInt(*node.Int64, 10), nil
	case node.Uint64 != nil:
		if f.IsTOML() {
			return "", fmt.Errorf("%w: %s: %d does not fit a TOML integer", ErrEncoding, node.Path(), *node.Uint64)
		}
		return strconv.FormatUint(*node.Uint64, 10), nil
	case node.Float64 != nil:
		v := *node.Float64
		switch {
		case math.IsNaN(v):
			return nonFinite(node, f, "nan")
		case math.IsInf(v, 1):
			return nonFinite(node, f, "inf")
		case math.IsInf(v, -1):
			return nonFinite(node, f, "-inf")
		}
		return ir.FormatFloat(v), nil
	}
	return "", fmt.Errorf("%w: %s: number without a value", ErrEncoding, node.Path())
}

func nonFinite(node *ir.Node, f format.Format, v string) (string, error) {
	switch f {
	case format.YAMLFormat:
		if strings.HasPrefix(v, "-") {
			return "-." + v[1:], nil
		}
		return "." + v, nil
	case format.TOMLFormat:
		return v, nil
	}
	return "", fmt.Errorf("%w: %s: %s is not representable in %s", ErrEncoding, node.Path(), v, f)
}
