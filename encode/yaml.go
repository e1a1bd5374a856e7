package encode

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/ir"
)

// YAML output is block style. Collections start on the line after their
// key, objects inside sequences start on the dash line.

func encodeYAML(node *ir.Node, es *EncState) error {
	switch {
	case isBlock(node) && node.Type == ir.ObjectType:
		return encodeYAMLFields(node, es, 0, false)
	case isBlock(node):
		return encodeYAMLItems(node, es, 0, false)
	default:
		return encodeYAMLScalar(node, es)
	}
}

func isBlock(node *ir.Node) bool {
	switch node.Type {
	case ir.ObjectType:
		return len(node.Fields) != 0
	case ir.ArrayType:
		return len(node.Values) != 0
	}
	return false
}

// encodeYAMLValue writes node after a "key:" or "-" that is already on the
// current line.
func encodeYAMLValue(node *ir.Node, es *EncState, depth int) error {
	if !isBlock(node) {
		es.write(" ")
		return encodeYAMLScalar(node, es)
	}
	es.write("\n")
	if node.Type == ir.ObjectType {
		return encodeYAMLFields(node, es, depth, false)
	}
	return encodeYAMLItems(node, es, depth, false)
}

func encodeYAMLFields(node *ir.Node, es *EncState, depth int, onDash bool) error {
	for i, f := range node.Fields {
		if i > 0 {
			es.write("\n")
		}
		if i > 0 || !onDash {
			es.write(es.indentString(depth))
		}
		es.write(yamlString(f.String) + ":")
		if err := encodeYAMLValue(node.Values[i], es, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func encodeYAMLItems(node *ir.Node, es *EncState, depth int, onDash bool) error {
	for i, v := range node.Values {
		if i > 0 {
			es.write("\n")
		}
		if i > 0 || !onDash {
			es.write(es.indentString(depth))
		}
		es.write("-")
		if !isBlock(v) {
			es.write(" ")
			if err := encodeYAMLScalar(v, es); err != nil {
				return err
			}
			continue
		}
		es.write(" ")
		var err error
		if v.Type == ir.ObjectType {
			err = encodeYAMLFields(v, es, depth+1, true)
		} else {
			err = encodeYAMLItems(v, es, depth+1, true)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeYAMLScalar(node *ir.Node, es *EncState) error {
	switch node.Type {
	case ir.ObjectType:
		es.write("{}")
	case ir.ArrayType:
		es.write("[]")
	case ir.StringType:
		es.write(yamlString(node.String))
	case ir.NumberType:
		v, err := numberText(node, format.YAMLFormat)
		if err != nil {
			return err
		}
		es.write(v)
	case ir.BoolType:
		es.write(strconv.FormatBool(node.Bool))
	case ir.NullType:
		es.write("null")
	}
	return nil
}

var yamlPlain = regexp.MustCompile(`^[A-Za-z_/][A-Za-z0-9_./-]*$`)

// yamlReserved are plain scalars that YAML 1.1 or 1.2 resolve to something
// other than a string.
var yamlReserved = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true,
	"on": true, "off": true, "y": true, "n": true,
	"null": true,
}

func yamlString(v string) string {
	if !yamlPlain.MatchString(v) || yamlReserved[strings.ToLower(v)] {
		return quote(v)
	}
	return v
}
