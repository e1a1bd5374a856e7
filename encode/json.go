package encode

import (
	"strconv"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/ir"
)

func encodeJSON(node *ir.Node, es *EncState) error {
	switch node.Type {
	case ir.ObjectType:
		return encodeJSONObject(node, es)
	case ir.ArrayType:
		return encodeJSONArray(node, es)
	case ir.StringType:
		es.write(applyValueColor(es, ir.StringType, quote(node.String)))
	case ir.NumberType:
		v, err := numberText(node, format.JSONFormat)
		if err != nil {
			return err
		}
		es.write(applyValueColor(es, ir.NumberType, v))
	case ir.BoolType:
		es.write(applyValueColor(es, ir.BoolType, strconv.FormatBool(node.Bool)))
	case ir.NullType:
		es.write(applyValueColor(es, ir.NullType, "null"))
	}
	return nil
}

func encodeJSONObject(node *ir.Node, es *EncState) error {
	if len(node.Fields) == 0 {
		es.write(applyColor(es, ir.ObjectType, SepColor, "{}"))
		return nil
	}
	es.write(applyColor(es, ir.ObjectType, SepColor, "{"))
	es.depth++
	for i, f := range node.Fields {
		if i > 0 {
			es.write(applyColor(es, ir.ObjectType, SepColor, ","))
		}
		writeJSONNL(es)
		es.write(applyColor(es, ir.ObjectType, FieldColor, quote(f.String)))
		es.write(applyColor(es, ir.ObjectType, SepColor, ":"))
		if es.pretty {
			es.write(" ")
		}
		if err := encodeJSON(node.Values[i], es); err != nil {
			return err
		}
	}
	es.depth--
	writeJSONNL(es)
	es.write(applyColor(es, ir.ObjectType, SepColor, "}"))
	return nil
}

func encodeJSONArray(node *ir.Node, es *EncState) error {
	if len(node.Values) == 0 {
		es.write(applyColor(es, ir.ArrayType, SepColor, "[]"))
		return nil
	}
	es.write(applyColor(es, ir.ArrayType, SepColor, "["))
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			es.write(applyColor(es, ir.ArrayType, SepColor, ","))
		}
		writeJSONNL(es)
		if err := encodeJSON(v, es); err != nil {
			return err
		}
	}
	es.depth--
	writeJSONNL(es)
	es.write(applyColor(es, ir.ArrayType, SepColor, "]"))
	return nil
}

func writeJSONNL(es *EncState) {
	if !es.pretty {
		return
	}
	es.write("\n" + es.indentString(es.depth))
}
