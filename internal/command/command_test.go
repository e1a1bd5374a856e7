package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scott-cotton/cli"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/gvas"
)

var (
	sampleSav  = filepath.Join("..", "..", "gvas", "testdata", "sample1.sav")
	sampleJSON = filepath.Join("..", "..", "gvas", "testdata", "sample1.json")
)

func sampleDecodeConfig(f format.Format) *DecodeConfig {
	return &DecodeConfig{
		Pretty: true,
		Color:  "never",
		Hints: gvas.Hints{
			"Visited":     "Guid",
			"Homes.Value": "Vector",
			"Party.Seen":  "IntPoint",
		},
		format: f,
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

func TestDecode(t *testing.T) {
	out := &bytes.Buffer{}
	if err := sampleDecodeConfig(format.JSONFormat).decode(nil, out, io.Discard, []string{sampleSav}); err != nil {
		t.Fatal(err)
	}
	if out.String() != string(readFile(t, sampleJSON)) {
		t.Error("output differs from sample1.json")
	}
}

func TestDecodeStdin(t *testing.T) {
	for _, args := range [][]string{nil, {"-"}} {
		out := &bytes.Buffer{}
		stdin := bytes.NewReader(readFile(t, sampleSav))
		if err := sampleDecodeConfig(format.YAMLFormat).decode(stdin, out, io.Discard, args); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out.String(), "header:\n") {
			t.Errorf("args %q: unexpected output\n%s", args, out.String())
		}
	}
}

func TestDecodeMissingInput(t *testing.T) {
	out := &bytes.Buffer{}
	missing := filepath.Join(t.TempDir(), "missing.sav")
	err := sampleDecodeConfig(format.JSONFormat).decode(nil, out, io.Discard, []string{missing})
	if err == nil || !strings.Contains(err.Error(), "no such file or directory") {
		t.Fatalf("got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %q", out.String())
	}
}

func TestDecodeUsage(t *testing.T) {
	cfg := sampleDecodeConfig(format.JSONFormat)
	err := cfg.decode(nil, io.Discard, io.Discard, []string{"a.sav", "b.sav"})
	if !errors.Is(err, cli.ErrUsage) {
		t.Errorf("two inputs: got %v, want ErrUsage", err)
	}
	cfg.Color = "sometimes"
	err = cfg.decode(nil, io.Discard, io.Discard, []string{sampleSav})
	if !errors.Is(err, cli.ErrUsage) {
		t.Errorf("bad color: got %v, want ErrUsage", err)
	}
}

func TestHintOpt(t *testing.T) {
	cfg := &DecodeConfig{Hints: gvas.Hints{}}
	if _, err := cfg.hintOpt(nil, "Visited=Guid"); err != nil {
		t.Fatal(err)
	}
	if cfg.Hints["Visited"] != "Guid" {
		t.Errorf("hints = %v", cfg.Hints)
	}
	_, err := cfg.hintOpt(nil, "Foo.Bar")
	if !errors.Is(err, gvas.ErrInvalidHint) || !errors.Is(err, cli.ErrUsage) {
		t.Errorf("got %v, want ErrInvalidHint and ErrUsage", err)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func testContext(stdout, stderr io.Writer) *cli.Context {
	return &cli.Context{
		In:  io.NopCloser(strings.NewReader("")),
		Out: nopWriteCloser{stdout},
		Err: nopWriteCloser{stderr},
		Go:  context.Background(),
	}
}

func TestRunBadHintBeforeInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.sav")
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := Decode("gvas2json", format.JSONFormat)
	err := cmd.Run(testContext(out, errOut), []string{"-t", "Foo.Bar", missing})
	if !errors.Is(err, gvas.ErrInvalidHint) || !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("got %v, want ErrInvalidHint and ErrUsage", err)
	}
	if strings.Contains(err.Error(), "no such file or directory") {
		t.Errorf("input was opened: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %q", out.String())
	}

	cmd = Decode("gvas2json", format.JSONFormat)
	err = cmd.Run(testContext(out, errOut), []string{"-t", "Party.Seen=IntPoint", missing})
	if err == nil || !strings.Contains(err.Error(), "no such file or directory") {
		t.Fatalf("valid hint: got %v", err)
	}
}

func TestRunLogsToContext(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := Encode("json2gvas", format.JSONFormat)
	if err := cmd.Run(testContext(out, errOut), []string{"-v", sampleJSON}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), readFile(t, sampleSav)) {
		t.Error("output differs from sample1.sav")
	}
	if !strings.Contains(errOut.String(), `msg="encoded save"`) {
		t.Errorf("log not written to the context:\n%s", errOut.String())
	}
}

func TestVerboseLog(t *testing.T) {
	cfg := sampleDecodeConfig(format.TOMLFormat)
	cfg.Verbose = true
	stderr := &bytes.Buffer{}
	if err := cfg.decode(nil, io.Discard, stderr, []string{sampleSav}); err != nil {
		t.Fatal(err)
	}
	log := stderr.String()
	if !strings.Contains(log, "level=DEBUG") || !strings.Contains(log, `msg="decoded save"`) {
		t.Errorf("missing debug records:\n%s", log)
	}
	if strings.Contains(log, "time=") {
		t.Errorf("log carries timestamps:\n%s", log)
	}

	cfg.Verbose = false
	stderr.Reset()
	if err := cfg.decode(nil, io.Discard, stderr, []string{sampleSav}); err != nil {
		t.Fatal(err)
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet run logged:\n%s", stderr.String())
	}
}

func TestEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sav")
	cfg := &EncodeConfig{Output: path, format: format.JSONFormat}
	stdout := &bytes.Buffer{}
	if err := cfg.encode(nil, stdout, io.Discard, []string{sampleJSON}); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Errorf("wrote %d bytes to stdout", stdout.Len())
	}
	if !bytes.Equal(readFile(t, path), readFile(t, sampleSav)) {
		t.Error("output differs from sample1.sav")
	}
}

func TestEncodeStdout(t *testing.T) {
	cfg := &EncodeConfig{format: format.JSONFormat}
	stdout := &bytes.Buffer{}
	stdin := bytes.NewReader(readFile(t, sampleJSON))
	if err := cfg.encode(stdin, stdout, io.Discard, nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stdout.Bytes(), readFile(t, sampleSav)) {
		t.Error("output differs from sample1.sav")
	}
}

func hasOpt(cmd *cli.Command, name string) bool {
	for _, o := range cmd.Opts {
		if o.Name == name {
			return true
		}
	}
	return false
}

func TestCommandOpts(t *testing.T) {
	json := Decode("gvas2json", format.JSONFormat)
	for _, name := range []string{"o", "p", "color", "no-pager", "palworld", "v", "t"} {
		if !hasOpt(json, name) {
			t.Errorf("gvas2json lacks -%s", name)
		}
	}
	if hasOpt(Decode("gvas2yaml", format.YAMLFormat), "p") {
		t.Error("gvas2yaml has -p")
	}
	enc := Encode("json2gvas", format.JSONFormat)
	for _, name := range []string{"o", "palworld", "v"} {
		if !hasOpt(enc, name) {
			t.Errorf("json2gvas lacks -%s", name)
		}
	}
}
