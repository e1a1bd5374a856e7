package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/signadot/gvas-format/ir"
)

// parseJSON walks the token stream so that object fields keep their order
// and repeated keys survive. The decoder's token reader does not check
// structure, so the input is validated first.
func parseJSON(d []byte) (*ir.Node, error) {
	if !json.Valid(d) {
		var v any
		err := json.Unmarshal(d, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := jsonValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrFormat)
	}
	return res, nil
}

func jsonToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: unexpected end of JSON input", ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return tok, nil
}

func jsonValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := jsonToken(dec)
	if err != nil {
		return nil, err
	}
	return jsonNode(dec, tok)
}

func jsonNode(dec *json.Decoder, tok json.Token) (*ir.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return jsonObject(dec)
		case '[':
			return jsonArray(dec)
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrFormat, v)
	case json.Number:
		// the token aliases the decoder's buffer; it is converted before
		// the next read.
		s := string(v)
		if strings.ContainsAny(s, ".eE") {
			return floatNode(s)
		}
		return intNode(s, 10)
	case string:
		return ir.FromString(v), nil
	case bool:
		return ir.FromBool(v), nil
	case nil:
		return ir.Null(), nil
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrFormat, tok)
}

func jsonObject(dec *json.Decoder) (*ir.Node, error) {
	obj := ir.NewObject()
	for {
		tok, err := jsonToken(dec)
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key is %v, not a string", ErrFormat, tok)
		}
		val, err := jsonValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Append(key, val)
	}
}

func jsonArray(dec *json.Decoder) (*ir.Node, error) {
	arr := ir.NewArray()
	for {
		tok, err := jsonToken(dec)
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}
		val, err := jsonNode(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.Push(val)
	}
}
