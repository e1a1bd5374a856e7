package encode

import (
	"strings"

	"github.com/signadot/gvas-format/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// NewColors returns the default palette. It honours color.NoColor and
// NO_COLOR.
func NewColors() *Colors {
	return newColors(false)
}

// ForceColors returns the default palette with escape codes enabled even
// when stdout is not a terminal or NO_COLOR is set.
func ForceColors() *Colors {
	return newColors(true)
}

func newColors(force bool) *Colors {
	mk := func(c *color.Color) func(string, ...any) string {
		if force {
			c.EnableColor()
		}
		return c.SprintfFunc()
	}
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range ir.Types() {
		colors.Map[Colorable{Type: t, Attr: SepColor}] = mk(color.RGB(255, 0, 196))
	}
	able := Colorable{Attr: ValueColor}

	able.Type = ir.NumberType
	colors.Map[able] = mk(color.RGB(128, 216, 236))

	able.Type = ir.NullType
	colors.Map[able] = mk(color.RGB(168, 0, 196))

	able.Type = ir.BoolType
	colors.Map[able] = mk(color.New(color.FgCyan))

	able.Type = ir.StringType
	colors.Map[able] = mk(color.RGB(8, 196, 16))

	able.Type = ir.ObjectType
	able.Attr = FieldColor
	colors.Map[able] = mk(color.RGB(128, 168, 196))
	able.Attr = SepColor
	colors.Map[able] = mk(color.RGB(196, 128, 128))

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
