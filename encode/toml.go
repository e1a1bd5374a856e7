package encode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/ir"
)

// TOML output writes the trailing run of table valued entries of each table
// as [sections] and everything else as key = value lines with inline
// tables. Compact output uses no sections at all.

func encodeTOML(node *ir.Node, es *EncState) error {
	if node.Type != ir.ObjectType {
		return fmt.Errorf("%w: a TOML document must be a table, not %s", ErrEncoding, node.Type)
	}
	return encodeTOMLTable(node, es, nil)
}

func encodeTOMLTable(node *ir.Node, es *EncState, path []string) error {
	if err := checkTOMLKeys(node); err != nil {
		return err
	}
	split := len(node.Values)
	if es.pretty {
		for split > 0 && node.Values[split-1].Type == ir.ObjectType {
			split--
		}
	}
	for i := 0; i < split; i++ {
		if es.buf.Len() > 0 {
			es.write("\n")
		}
		es.write(tomlKey(node.Fields[i].String) + " = ")
		if err := encodeTOMLValue(node.Values[i], es, es.pretty); err != nil {
			return err
		}
	}
	for i := split; i < len(node.Values); i++ {
		sub := append(path[:len(path):len(path)], node.Fields[i].String)
		if es.buf.Len() > 0 {
			es.write("\n\n")
		}
		es.write("[" + tomlPath(sub) + "]")
		if err := encodeTOMLTable(node.Values[i], es, sub); err != nil {
			return err
		}
	}
	return nil
}

// encodeTOMLValue writes an inline value. Only arrays directly under a
// key = value line are spread over several lines.
func encodeTOMLValue(node *ir.Node, es *EncState, multiline bool) error {
	switch node.Type {
	case ir.ObjectType:
		if err := checkTOMLKeys(node); err != nil {
			return err
		}
		if len(node.Fields) == 0 {
			es.write("{}")
			return nil
		}
		es.write("{")
		for i, f := range node.Fields {
			if i > 0 {
				es.write(", ")
			}
			es.write(tomlKey(f.String) + " = ")
			if err := encodeTOMLValue(node.Values[i], es, false); err != nil {
				return err
			}
		}
		es.write("}")
	case ir.ArrayType:
		if len(node.Values) == 0 {
			es.write("[]")
			return nil
		}
		es.write("[")
		for i, v := range node.Values {
			if multiline {
				es.write("\n" + es.indentString(1))
			} else if i > 0 {
				es.write(", ")
			}
			if err := encodeTOMLValue(v, es, false); err != nil {
				return err
			}
			if multiline {
				es.write(",")
			}
		}
		if multiline {
			es.write("\n")
		}
		es.write("]")
	case ir.StringType:
		es.write(quote(node.String))
	case ir.NumberType:
		v, err := numberText(node, format.TOMLFormat)
		if err != nil {
			return err
		}
		es.write(v)
	case ir.BoolType:
		es.write(strconv.FormatBool(node.Bool))
	case ir.NullType:
		return fmt.Errorf("%w: %s: TOML has no null", ErrEncoding, node.Path())
	}
	return nil
}

func checkTOMLKeys(node *ir.Node) error {
	seen := make(map[string]bool, len(node.Fields))
	for _, f := range node.Fields {
		if seen[f.String] {
			return fmt.Errorf("%w: %s: duplicate key %q is not allowed in TOML", ErrEncoding, node.Path(), f.String)
		}
		seen[f.String] = true
	}
	return nil
}

var tomlBare = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func tomlKey(k string) string {
	if tomlBare.MatchString(k) {
		return k
	}
	return quote(k)
}

func tomlPath(path []string) string {
	keys := make([]string, len(path))
	for i, k := range path {
		keys[i] = tomlKey(k)
	}
	return strings.Join(keys, ".")
}
