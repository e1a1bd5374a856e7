package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/gvas-format/encode"
	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/gvas"
	"github.com/signadot/gvas-format/ir"
	"github.com/signadot/gvas-format/parse"
	"github.com/signadot/gvas-format/render"
)

// OpenInput opens path for reading. An empty path or "-" reads stdin.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return f, nil
}

func readAll(r io.Reader) ([]byte, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return d, nil
}

// ReadDocument reads a whole save file from r and decodes it.
func ReadDocument(r io.Reader, v gvas.GameVersion, hints gvas.Hints) (*ir.Node, error) {
	d, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return gvas.Decode(d, v, hints)
}

// ToText encodes doc in format f. colors may be nil.
func ToText(doc *ir.Node, f format.Format, pretty bool, colors *encode.Colors) (string, error) {
	opts := []encode.EncodeOption{
		encode.EncodeFormat(f),
		encode.EncodePretty(pretty),
	}
	if colors != nil {
		opts = append(opts, encode.EncodeColors(colors))
	}
	return encode.EncodeString(doc, opts...)
}

func FromText(d []byte, f format.Format) (*ir.Node, error) {
	return parse.Parse(d, parse.ParseFormat(f))
}

// Decode converts the save file read from r to text and hands it to rd.
func Decode(r io.Reader, rd *render.Renderer, cfg *Config) error {
	log := cfg.log()
	doc, err := ReadDocument(r, cfg.GameVersion, cfg.Hints)
	if err != nil {
		return err
	}
	if props := doc.Get("properties"); props != nil {
		log.Debug("decoded save", "game", cfg.GameVersion, "properties", len(props.Fields))
	}
	colors := rd.Colors(cfg.Format)
	text, err := ToText(doc, cfg.Format, cfg.Pretty, colors)
	if err != nil {
		return err
	}
	log.Debug("encoded text", "format", cfg.Format, "bytes", len(text), "color", colors != nil)
	return rd.Render(text, colors != nil)
}

// Encode converts the text read from r to a save file. The file at
// outputPath is only created once the save has been fully encoded; without
// an outputPath the bytes go to stdout.
func Encode(r io.Reader, outputPath string, stdout io.Writer, cfg *Config) error {
	log := cfg.log()
	d, err := readAll(r)
	if err != nil {
		return err
	}
	log.Debug("read text", "format", cfg.Format, "bytes", len(d))
	doc, err := FromText(d, cfg.Format)
	if err != nil {
		return err
	}
	out, err := gvas.Encode(doc, cfg.GameVersion)
	if err != nil {
		return err
	}
	log.Debug("encoded save", "bytes", len(out), "game", cfg.GameVersion)
	if outputPath == "" {
		if _, err := stdout.Write(out); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil
	}
	return render.WriteFile(outputPath, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
}
