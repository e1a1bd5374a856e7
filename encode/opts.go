package encode

import "github.com/signadot/gvas-format/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

// EncodePretty selects indented output. Compact JSON has no whitespace and
// compact TOML keeps every root entry on one line. YAML is always block
// style.
func EncodePretty(v bool) EncodeOption {
	return func(es *EncState) { es.pretty = v }
}
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// EncodeColors colorizes JSON output. It has no effect on other formats.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}
