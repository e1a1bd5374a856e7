package convert

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/gvas"
	"github.com/signadot/gvas-format/ir"
	"github.com/signadot/gvas-format/parse"
	"github.com/signadot/gvas-format/render"
)

var update = flag.Bool("update", false, "rewrite the golden sample1.json")

var (
	sampleSav  = filepath.Join("..", "gvas", "testdata", "sample1.sav")
	sampleJSON = filepath.Join("..", "gvas", "testdata", "sample1.json")
)

var sampleHints = gvas.Hints{
	"Visited":     "Guid",
	"Homes.Value": "Vector",
	"Party.Seen":  "IntPoint",
}

func sampleConfig(f format.Format) *Config {
	return &Config{
		Format:      f,
		Pretty:      true,
		GameVersion: gvas.Default,
		Hints:       sampleHints,
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	d, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func textDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	return dmp.DiffPrettyText(dmp.DiffMain(want, got, true))
}

func TestDecodeGolden(t *testing.T) {
	golden := sampleJSON
	in := bytes.NewReader(readFile(t, sampleSav))
	out := &bytes.Buffer{}
	rd := render.New(out, render.Options{Color: render.ColorNever})
	if err := Decode(in, rd, sampleConfig(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	if *update {
		if err := os.WriteFile(golden, out.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	want := string(readFile(t, golden))
	if got := out.String(); got != want {
		t.Errorf("decoded text differs from %s:\n%s", golden, textDiff(want, got))
	}
}

func TestEncodeGolden(t *testing.T) {
	in := bytes.NewReader(readFile(t, sampleJSON))
	out := &bytes.Buffer{}
	if err := Encode(in, "", out, sampleConfig(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	want := readFile(t, sampleSav)
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("encoded %d bytes, want the %d bytes of sample1.sav", out.Len(), len(want))
	}
}

func TestTextRoundTrip(t *testing.T) {
	sav := readFile(t, sampleSav)
	for _, f := range []format.Format{format.JSONFormat, format.YAMLFormat, format.TOMLFormat} {
		for _, pretty := range []bool{true, false} {
			name := f.String()
			if !pretty {
				name += "/compact"
			}
			t.Run(name, func(t *testing.T) {
				cfg := sampleConfig(f)
				cfg.Pretty = pretty
				text := &bytes.Buffer{}
				rd := render.New(text, render.Options{})
				if err := Decode(bytes.NewReader(sav), rd, cfg); err != nil {
					t.Fatal(err)
				}
				out := &bytes.Buffer{}
				if err := Encode(bytes.NewReader(text.Bytes()), "", out, cfg); err != nil {
					t.Fatalf("%v\n%s", err, text.String())
				}
				if !bytes.Equal(out.Bytes(), sav) {
					t.Error("save file changed in the round trip")
				}
			})
		}
	}
}

func TestDecodeColor(t *testing.T) {
	sav := readFile(t, sampleSav)
	tests := []struct {
		name  string
		mode  render.ColorMode
		f     format.Format
		color bool
	}{
		{"json always", render.ColorAlways, format.JSONFormat, true},
		{"json never", render.ColorNever, format.JSONFormat, false},
		{"json auto pipe", render.ColorAuto, format.JSONFormat, false},
		{"yaml always", render.ColorAlways, format.YAMLFormat, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			rd := render.New(out, render.Options{Color: tt.mode})
			if err := Decode(bytes.NewReader(sav), rd, sampleConfig(tt.f)); err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(out.String(), "\x1b["); got != tt.color {
				t.Errorf("colored = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestDecodeToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	stdout := &bytes.Buffer{}
	rd := render.New(stdout, render.Options{OutputPath: path, Color: render.ColorAlways})
	in := bytes.NewReader(readFile(t, sampleSav))
	if err := Decode(in, rd, sampleConfig(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Errorf("wrote %d bytes to stdout", stdout.Len())
	}
	got := string(readFile(t, path))
	if strings.Contains(got, "\x1b[") {
		t.Error("output file is colored")
	}
	want := string(readFile(t, sampleJSON))
	if got != want {
		t.Errorf("output file differs:\n%s", textDiff(want, got))
	}
}

func TestDecodeFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	rd := render.New(&bytes.Buffer{}, render.Options{OutputPath: path})
	cfg := sampleConfig(format.JSONFormat)
	cfg.Hints = nil
	in := bytes.NewReader(readFile(t, sampleSav))
	err := Decode(in, rd, cfg)
	if !errors.Is(err, gvas.ErrMissingHint) {
		t.Fatalf("got %v, want ErrMissingHint", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output file was created: %v", err)
	}
}

func TestEncodeToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.sav")
	in := bytes.NewReader(readFile(t, sampleJSON))
	stdout := &bytes.Buffer{}
	if err := Encode(in, path, stdout, sampleConfig(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Errorf("wrote %d bytes to stdout", stdout.Len())
	}
	if !bytes.Equal(readFile(t, path), readFile(t, sampleSav)) {
		t.Error("output file differs from sample1.sav")
	}

	bad := filepath.Join(dir, "bad.sav")
	err := Encode(strings.NewReader(`{"header": {}}`), bad, stdout, sampleConfig(format.JSONFormat))
	if !errors.Is(err, gvas.ErrSchema) {
		t.Fatalf("got %v, want ErrSchema", err)
	}
	if _, err := os.Stat(bad); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output file was created: %v", err)
	}
}

func TestEncodeFormatError(t *testing.T) {
	out := &bytes.Buffer{}
	err := Encode(strings.NewReader("{"), "", out, sampleConfig(format.JSONFormat))
	if !errors.Is(err, parse.ErrFormat) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes", out.Len())
	}
}

func TestPalworldRoundTrip(t *testing.T) {
	doc, err := parse.Parse(readFile(t, sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	cfg := sampleConfig(format.JSONFormat)
	cfg.GameVersion = gvas.Palworld
	sav := &bytes.Buffer{}
	if err := Encode(bytes.NewReader(readFile(t, sampleJSON)), "", sav, cfg); err != nil {
		t.Fatal(err)
	}
	text := &bytes.Buffer{}
	if err := Decode(bytes.NewReader(sav.Bytes()), render.New(text, render.Options{}), cfg); err != nil {
		t.Fatal(err)
	}
	got, err := FromText(text.Bytes(), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	header := got.Get("header")
	saveType := header.Get("palworld_save_type")
	if saveType == nil || saveType.Int64 == nil || *saveType.Int64 != 0x32 {
		t.Fatalf("palworld_save_type = %v", saveType)
	}
	// drop the framing field to compare with the plain document
	header.Fields = header.Fields[:len(header.Fields)-1]
	header.Values = header.Values[:len(header.Values)-1]
	if !ir.Equal(got, doc) {
		t.Error("document changed in the Palworld round trip")
	}
}

func TestOpenInput(t *testing.T) {
	stdin := strings.NewReader("from stdin")
	for _, path := range []string{"", "-"} {
		r, err := OpenInput(path, stdin)
		if err != nil {
			t.Fatal(err)
		}
		r.Close()
	}
	_, err := OpenInput(filepath.Join(t.TempDir(), "missing.sav"), stdin)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("got %v, want ErrIO", err)
	}
	if !strings.Contains(err.Error(), "no such file or directory") {
		t.Errorf("error %q lacks the platform text", err)
	}
}

func TestToTextFromText(t *testing.T) {
	doc := ir.NewObject().Append("k", ir.FromString("v"))
	for _, f := range []format.Format{format.JSONFormat, format.YAMLFormat, format.TOMLFormat} {
		text, err := ToText(doc, f, true, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := FromText([]byte(text), f)
		if err != nil {
			t.Fatal(err)
		}
		if !ir.Equal(got, doc) {
			t.Errorf("%s: document changed, text was\n%s", f, text)
		}
	}
}
