package gvas

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/signadot/gvas-format/ir"
)

var sampleHints = Hints{
	"Visited":     "Guid",
	"Homes.Value": "Vector",
	"Party.Seen":  "IntPoint",
}

func readSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "sample1.sav"))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func decodeSample(t *testing.T) *ir.Node {
	t.Helper()
	doc, err := Decode(readSample(t), Default, sampleHints)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

// at resolves a path such as $.properties.Party.value[0].Seen.
func at(doc *ir.Node, p string) *ir.Node {
	n := doc
	for _, seg := range strings.Split(strings.TrimPrefix(p, "$."), ".") {
		name, idx, _ := strings.Cut(seg, "[")
		n = n.Get(name)
		for n != nil && idx != "" {
			var i string
			i, idx, _ = strings.Cut(idx, "]")
			idx = strings.TrimPrefix(idx, "[")
			k, err := strconv.Atoi(i)
			if err != nil || n.Type != ir.ArrayType || k >= len(n.Values) {
				return nil
			}
			n = n.Values[k]
		}
		if n == nil {
			return nil
		}
	}
	return n
}

func mustPath(t *testing.T, doc *ir.Node, p string) *ir.Node {
	t.Helper()
	n := at(doc, p)
	if n == nil {
		t.Fatalf("%s: missing", p)
	}
	return n
}

func TestRoundTrip(t *testing.T) {
	data := readSample(t)
	doc, err := Decode(data, Default, sampleHints)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := Encode(doc, Default)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip differs: got %d bytes, want %d", len(got), len(data))
	}
}

func TestDecodeSample(t *testing.T) {
	doc := decodeSample(t)
	if doc.Get("trailer") != nil {
		t.Error("unexpected trailer")
	}
	strs := map[string]string{
		"$.header.save_game_class_name":               "/Script/MyGame.MySaveGame",
		"$.properties.PlayerName.value":               "Hero",
		"$.properties.Motto.value":                    "Größe",
		"$.properties.Difficulty.enum":                "EDifficulty",
		"$.properties.Mood.value":                     "EMood::Happy",
		"$.properties.SaveId.value":                   "0A1B2C3D-4E5F-6071-8293-A4B5C6D7E8F9",
		"$.properties.Party.struct":                   "PartyMember",
		"$.properties.Party.value[1].Name.value":      "Bob",
		"$.properties.Visited.struct":                 "Guid",
		"$.properties.Homes.value_struct":             "Vector",
		"$.properties.Blob.value":                     "AAEC+v8=",
		"$.properties.Fancy.raw":                      "AQIDBAUG",
		"$.properties.Settings.value.Subtitles.value": "en",
		"$.properties.Settings.struct_guid":           "11111111-2222-3333-4444-555555555555",
		"$.properties.Party.value[0].Seen.struct":     "IntPoint",
		"$.header.engine_version.branch":              "++UE5+Release-5.1",
		"$.properties.Homes.entries[0].key":           "Camp",
		"$.properties.Stats.entries[1].key":           "dex",
		"$.properties.Tags.value[1]":                  "brave",
		"$.properties.Unlocked.value[0]":              "A",
		"$.properties.Tagged.guid":                    "DEADBEEF-0000-0000-0000-000000000001",
		"$.properties.Visited.value[0]":               "11111111-2222-3333-4444-555555555555",
		"$.header.custom_versions[1].guid":            "22D5549C-BE4F-26A8-4607-2194D082B461",
		"$.properties.Settings.value.Volume.type":     "FloatProperty",
	}
	for p, want := range strs {
		n := mustPath(t, doc, p)
		if n.Type != ir.StringType || n.String != want {
			t.Errorf("%s = %s %q, want %q", p, n.Type, n.String, want)
		}
	}
	ints := map[string]int64{
		"$.properties.Level.value":                    42,
		"$.properties.Gold.value":                     9000000000,
		"$.properties.Flags.value":                    7,
		"$.properties.Created.value":                  638000000000000000,
		"$.properties.Party.value[0].Seen.value[0].y": 2,
		"$.properties.Stats.entries[1].value":         -1,
	}
	for p, want := range ints {
		n := mustPath(t, doc, p)
		if n.Int64 == nil || *n.Int64 != want {
			t.Errorf("%s = %s, want %d", p, n.NumberString(), want)
		}
	}
	floats := map[string]float64{
		"$.properties.Health.value":                87.5,
		"$.properties.PlayTime.value":              3600.25,
		"$.properties.Position.value.z":            100.25,
		"$.properties.Tint.value.g":                0.5,
		"$.properties.Settings.value.Volume.value": 0.75,
		"$.properties.Homes.entries[0].value.z":    -8,
	}
	for p, want := range floats {
		n := mustPath(t, doc, p)
		if n.Float64 == nil || *n.Float64 != want {
			t.Errorf("%s = %s, want %v", p, n.NumberString(), want)
		}
	}

	seed := mustPath(t, doc, "$.properties.Seed.value")
	if seed.Int64 == nil || *seed.Int64 != 12345678901234567 {
		t.Errorf("Seed = %s", seed.NumberString())
	}
	if v := doc.Get("properties").Get("Nickname").Get("value"); v != nil {
		t.Errorf("null string decoded as %+v", v)
	}
	if v := mustPath(t, doc, "$.properties.Alive.value"); v.Type != ir.BoolType || !v.Bool {
		t.Errorf("Alive = %+v", v)
	}

	props := doc.Get("properties")
	if idx := props.Get("Ammo").Get("array_index"); idx == nil || *idx.Int64 != 1 {
		t.Errorf("Ammo array_index = %v", idx)
	}
	if props.Get("Slots").Get("array_index") != nil {
		t.Error("Slots has an array_index")
	}
	if first := props.Get("Party").Fields[0].String; first != "type" {
		t.Errorf("first property field is %q, want type", first)
	}
}

func TestMissingHint(t *testing.T) {
	tests := []struct {
		name  string
		hints Hints
		path  string
	}{
		{"set", Hints{"Homes.Value": "Vector", "Party.Seen": "IntPoint"}, "Visited"},
		{"map value", Hints{"Visited": "Guid", "Party.Seen": "IntPoint"}, "Homes"},
		{"nested set", Hints{"Visited": "Guid", "Homes.Value": "Vector"}, "Party.0.Seen"},
		{"none", nil, "Party.0.Seen"},
	}
	data := readSample(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(data, Default, tt.hints)
			if !errors.Is(err, ErrMissingHint) || !errors.Is(err, ErrDecode) {
				t.Fatalf("got %v, want ErrMissingHint", err)
			}
			var pe *PropertyError
			if !errors.As(err, &pe) {
				t.Fatalf("%v is not a PropertyError", err)
			}
			if pe.Path != tt.path {
				t.Errorf("error path %q, want %q", pe.Path, tt.path)
			}
		})
	}
}

func TestHintForEveryElement(t *testing.T) {
	hints := Hints{
		"Visited":       "Guid",
		"Homes.Value":   "Vector",
		"Party.0.Seen":  "IntPoint",
		"Party.1.Seen":  "IntPoint",
		"Unused.Thing":  "Nothing",
		"Stats.Key":     "Ignored",
		"Party.Seen.XX": "Ignored",
	}
	if _, err := Decode(readSample(t), Default, hints); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeErrors(t *testing.T) {
	data := readSample(t)
	bad := append([]byte{}, data...)
	copy(bad, "GVAZ")
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"magic", bad, ErrDecode},
		{"truncated header", data[:20], ErrTruncated},
		{"truncated properties", data[:len(data)-20], ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, Default, sampleHints)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrailer(t *testing.T) {
	data := readSample(t)
	tests := []struct {
		name    string
		data    []byte
		trailer string
	}{
		{"missing", data[:len(data)-4], ""},
		{"extra", append(append([]byte{}, data...), 0xAB, 0xCD), "AAAAAKvN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.data, Default, sampleHints)
			if err != nil {
				t.Fatal(err)
			}
			tr := doc.Get("trailer")
			if tr == nil || tr.String != tt.trailer {
				t.Fatalf("trailer = %+v, want %q", tr, tt.trailer)
			}
			got, err := Encode(doc, Default)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Error("round trip differs")
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(doc *ir.Node)
		want error
	}{
		{"int range", func(doc *ir.Node) {
			set(doc, "$.properties.Level", "value", ir.FromInt(1<<40))
		}, ErrEncode},
		{"byte range", func(doc *ir.Node) {
			set(doc, "$.properties.Flags", "value", ir.FromInt(256))
		}, ErrEncode},
		{"uint64 in int64", func(doc *ir.Node) {
			set(doc, "$.properties.Gold", "value", ir.FromUint(math.MaxUint64))
		}, ErrEncode},
		{"float32 range", func(doc *ir.Node) {
			set(doc, "$.properties.Health", "value", ir.FromFloat(1e40))
		}, ErrEncode},
		{"int type", func(doc *ir.Node) {
			set(doc, "$.properties.Level", "value", ir.FromString("x"))
		}, ErrSchema},
		{"float for int", func(doc *ir.Node) {
			set(doc, "$.properties.Level", "value", ir.FromFloat(1.5))
		}, ErrSchema},
		{"bad guid", func(doc *ir.Node) {
			set(doc, "$.properties.SaveId", "value", ir.FromString("nope"))
		}, ErrSchema},
		{"bad base64", func(doc *ir.Node) {
			set(doc, "$.properties.Fancy", "raw", ir.FromString("!!"))
		}, ErrSchema},
		{"missing vector field", func(doc *ir.Node) {
			set(doc, "$.properties.Position", "value", ir.NewObject().Append("x", ir.FromFloat(1)))
		}, ErrSchema},
		{"missing header", func(doc *ir.Node) {
			doc.Fields[0].String = "head"
		}, ErrSchema},
		{"palworld save type", func(doc *ir.Node) {
			doc.Get("header").Append("palworld_save_type", ir.FromInt(palworldDoubleZlib))
		}, ErrEncode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeSample(t)
			tt.edit(doc)
			_, err := Encode(doc, Default)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

// set replaces field key of the object at path p.
func set(doc *ir.Node, p, key string, v *ir.Node) {
	n := at(doc, p)
	for i, f := range n.Fields {
		if f.String == key {
			n.Values[i] = v
			return
		}
	}
	n.Append(key, v)
}

func TestEncodeAcceptsIntegerFloats(t *testing.T) {
	doc := decodeSample(t)
	set(doc, "$.properties.Position.value", "x", ir.FromInt(3))
	data, err := Encode(doc, Default)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data, Default, sampleHints)
	if err != nil {
		t.Fatal(err)
	}
	x := mustPath(t, back, "$.properties.Position.value.x")
	if x.Float64 == nil || *x.Float64 != 3 {
		t.Errorf("x = %s", x.NumberString())
	}
}

func TestPalworld(t *testing.T) {
	for _, st := range []int64{palworldSingleZlib, palworldDoubleZlib} {
		doc := decodeSample(t)
		doc.Get("header").Append("palworld_save_type", ir.FromInt(st))
		data, err := Encode(doc, Palworld)
		if err != nil {
			t.Fatalf("%#x: encode: %v", st, err)
		}
		if string(data[8:11]) != palworldMagic || int64(data[11]) != st {
			t.Fatalf("%#x: bad framing % x", st, data[:12])
		}
		back, err := Decode(data, Palworld, sampleHints)
		if err != nil {
			t.Fatalf("%#x: decode: %v", st, err)
		}
		if !ir.Equal(doc, back) {
			t.Errorf("%#x: document changed in round trip", st)
		}
	}
}

func TestPalworldDefaultsToDoubleZlib(t *testing.T) {
	data, err := Encode(decodeSample(t), Palworld)
	if err != nil {
		t.Fatal(err)
	}
	if data[11] != palworldDoubleZlib {
		t.Errorf("save type %#x", data[11])
	}
}

func TestPalworldErrors(t *testing.T) {
	payload := readSample(t)
	oodle, err := wrapPalworld(payload, palworldSingleZlib)
	if err != nil {
		t.Fatal(err)
	}
	copy(oodle[8:], palworldOodleMagic)
	badLen, _ := wrapPalworld(payload, palworldDoubleZlib)
	badLen[0]++
	badType, _ := wrapPalworld(payload, palworldSingleZlib)
	badType[11] = 0x40
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"plain gvas", payload, ErrDecode},
		{"short", []byte("PlZ"), ErrTruncated},
		{"oodle", oodle, ErrUnsupported},
		{"length", badLen, ErrDecode},
		{"save type", badType, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, Palworld, sampleHints)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
