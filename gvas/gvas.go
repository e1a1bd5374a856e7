package gvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/signadot/gvas-format/ir"
)

// noTrailer is what follows the root property bag in most saves.
var noTrailer = []byte{0, 0, 0, 0}

// Decode parses a complete save file into a document of the form
//
//	{header: {...}, properties: {...}, trailer: "<base64>"}
//
// where trailer is omitted when the file ends in the usual four zero bytes.
// hints supplies struct types for set and map elements, keyed by property
// path; see the package documentation.
func Decode(data []byte, v GameVersion, hints Hints) (*ir.Node, error) {
	saveType := -1
	if v == Palworld {
		payload, st, err := unwrapPalworld(data)
		if err != nil {
			return nil, err
		}
		data, saveType = payload, int(st)
	}
	d := &decoder{r: &reader{buf: data}, hints: hints}
	h, err := d.header()
	if err != nil {
		return nil, err
	}
	if saveType >= 0 {
		h.Append("palworld_save_type", ir.FromInt(int64(saveType)))
	}
	props, err := d.properties()
	if err != nil {
		return nil, err
	}
	doc := ir.NewObject().
		Append("header", h).
		Append("properties", props)
	if rest := data[d.r.pos:]; !bytes.Equal(rest, noTrailer) {
		doc.Append("trailer", ir.FromString(base64.StdEncoding.EncodeToString(rest)))
	}
	return doc, nil
}

// Encode writes doc, as produced by Decode, back to the binary save format.
func Encode(doc *ir.Node, v GameVersion) ([]byte, error) {
	h, err := field(doc, "header")
	if err != nil {
		return nil, err
	}
	props, err := field(doc, "properties")
	if err != nil {
		return nil, err
	}
	e := &encoder{}
	w := &writer{}
	if err := e.header(w, h); err != nil {
		return nil, err
	}
	if err := e.properties(w, props); err != nil {
		return nil, err
	}
	if t := doc.Get("trailer"); t != nil {
		b, err := asBase64(t)
		if err != nil {
			return nil, err
		}
		w.Write(b)
	} else {
		w.Write(noTrailer)
	}

	hasSaveType := h.Get("palworld_save_type") != nil
	switch v {
	case Palworld:
		saveType := int64(palworldDoubleZlib)
		if hasSaveType {
			if saveType, err = intField(h, "palworld_save_type", 0, math.MaxUint8); err != nil {
				return nil, err
			}
		}
		return wrapPalworld(w.Bytes(), uint8(saveType))
	default:
		if hasSaveType {
			return nil, fmt.Errorf("%w: header has palworld_save_type; encode with the palworld game version", ErrEncode)
		}
		return w.Bytes(), nil
	}
}
