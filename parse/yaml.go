package parse

import (
	"fmt"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/signadot/gvas-format/ir"
)

// parseYAML walks the syntax tree rather than decoding into maps, which
// would lose field order and repeated keys.
func parseYAML(d []byte) (*ir.Node, error) {
	f, err := parser.ParseBytes(d, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFormat, yaml.FormatError(err, false, true))
	}
	switch len(f.Docs) {
	case 0:
		return ir.Null(), nil
	case 1:
		return yamlNode(f.Docs[0].Body)
	}
	return nil, fmt.Errorf("%w: %d YAML documents, expected one", ErrFormat, len(f.Docs))
}

func yamlNode(n ast.Node) (*ir.Node, error) {
	switch v := n.(type) {
	case nil, *ast.NullNode, *ast.CommentGroupNode:
		return ir.Null(), nil
	case *ast.BoolNode:
		return ir.FromBool(v.Value), nil
	case *ast.IntegerNode:
		switch i := v.Value.(type) {
		case int64:
			return ir.FromInt(i), nil
		case uint64:
			return ir.FromUint(i), nil
		}
		return nil, fmt.Errorf("%w: integer %s out of range", ErrFormat, v.Token.Value)
	case *ast.FloatNode:
		return ir.FromFloat(v.Value), nil
	case *ast.InfinityNode:
		return ir.FromFloat(v.Value), nil
	case *ast.NanNode:
		return ir.FromFloat(math.NaN()), nil
	case *ast.StringNode:
		return ir.FromString(v.Value), nil
	case *ast.LiteralNode:
		return ir.FromString(v.Value.Value), nil
	case *ast.TagNode:
		return yamlNode(v.Value)
	case *ast.AnchorNode:
		return yamlNode(v.Value)
	case *ast.MappingNode:
		obj := ir.NewObject()
		for _, mv := range v.Values {
			if err := yamlField(obj, mv); err != nil {
				return nil, err
			}
		}
		return obj, nil
	case *ast.MappingValueNode:
		obj := ir.NewObject()
		if err := yamlField(obj, v); err != nil {
			return nil, err
		}
		return obj, nil
	case *ast.SequenceNode:
		arr := ir.NewArray()
		for _, e := range v.Values {
			val, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			arr.Push(val)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: unsupported YAML %s at line %d", ErrFormat, n.Type(), n.GetToken().Position.Line)
}

func yamlField(obj *ir.Node, mv *ast.MappingValueNode) error {
	var key string
	switch k := mv.Key.(type) {
	case *ast.StringNode:
		key = k.Value
	case ast.ScalarNode:
		key = k.GetToken().Value
	default:
		return fmt.Errorf("%w: unsupported YAML key %s at line %d", ErrFormat, k.Type(), k.GetToken().Position.Line)
	}
	val, err := yamlNode(mv.Value)
	if err != nil {
		return err
	}
	obj.Append(key, val)
	return nil
}
