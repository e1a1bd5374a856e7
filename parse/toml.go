package parse

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/signadot/gvas-format/ir"
)

// parseTOML validates d with the full decoder, which reports redefined
// keys and tables, then replays the expressions in document order to build
// the tree. Dates and times are kept as their text.
func parseTOML(d []byte) (*ir.Node, error) {
	var v map[string]any
	if err := toml.Unmarshal(d, &v); err != nil {
		return nil, tomlError(err)
	}
	p := &unstable.Parser{}
	p.Reset(d)
	root := ir.NewObject()
	cur := root
	for p.NextExpression() {
		e := p.Expression()
		var err error
		switch e.Kind {
		case unstable.KeyValue:
			err = tomlKeyValue(cur, e)
		case unstable.Table:
			cur, err = descend(root, tomlKeys(e.Key()))
		case unstable.ArrayTable:
			cur, err = tomlArrayTable(root, tomlKeys(e.Key()))
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.Error(); err != nil {
		return nil, tomlError(err)
	}
	return root, nil
}

func tomlError(err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return fmt.Errorf("%w: line %d, column %d: %s", ErrFormat, row, col, de.Error())
	}
	return fmt.Errorf("%w: %w", ErrFormat, err)
}

func tomlKeys(it unstable.Iterator) []string {
	var ks []string
	for it.Next() {
		ks = append(ks, string(it.Node().Data))
	}
	return ks
}

// descend returns the table at keys below t, creating the tables that do
// not exist yet. An array of tables stands for its last element.
func descend(t *ir.Node, keys []string) (*ir.Node, error) {
	for _, k := range keys {
		next := t.Get(k)
		if next == nil {
			next = ir.NewObject()
			t.Append(k, next)
		}
		if next.Type == ir.ArrayType && len(next.Values) > 0 {
			next = next.Values[len(next.Values)-1]
		}
		if next.Type != ir.ObjectType {
			return nil, fmt.Errorf("%w: %s is not a table", ErrFormat, next.Path())
		}
		t = next
	}
	return t, nil
}

func tomlArrayTable(root *ir.Node, keys []string) (*ir.Node, error) {
	parent, err := descend(root, keys[:len(keys)-1])
	if err != nil {
		return nil, err
	}
	last := keys[len(keys)-1]
	arr := parent.Get(last)
	if arr == nil {
		arr = ir.NewArray()
		parent.Append(last, arr)
	}
	if arr.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: %s is not an array of tables", ErrFormat, arr.Path())
	}
	t := ir.NewObject()
	arr.Push(t)
	return t, nil
}

func tomlKeyValue(t *ir.Node, e *unstable.Node) error {
	keys := tomlKeys(e.Key())
	parent, err := descend(t, keys[:len(keys)-1])
	if err != nil {
		return err
	}
	val, err := tomlValue(e.Value())
	if err != nil {
		return err
	}
	parent.Append(keys[len(keys)-1], val)
	return nil
}

func tomlValue(n *unstable.Node) (*ir.Node, error) {
	switch n.Kind {
	case unstable.String:
		return ir.FromString(string(n.Data)), nil
	case unstable.Bool:
		return ir.FromBool(string(n.Data) == "true"), nil
	case unstable.Integer:
		return intNode(string(n.Data), 0)
	case unstable.Float:
		s := strings.ReplaceAll(string(n.Data), "_", "")
		switch s {
		case "nan", "+nan", "-nan":
			return ir.FromFloat(math.NaN()), nil
		}
		return floatNode(s)
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		return ir.FromString(string(n.Data)), nil
	case unstable.Array:
		arr := ir.NewArray()
		it := n.Children()
		for it.Next() {
			v, err := tomlValue(it.Node())
			if err != nil {
				return nil, err
			}
			arr.Push(v)
		}
		return arr, nil
	case unstable.InlineTable:
		obj := ir.NewObject()
		it := n.Children()
		for it.Next() {
			if err := tomlKeyValue(obj, it.Node()); err != nil {
				return nil, err
			}
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%w: unexpected TOML %s", ErrFormat, n.Kind)
}
