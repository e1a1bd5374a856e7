package render

import "fmt"

// ColorMode selects when JSON output is colorized.
type ColorMode int

const (
	// ColorAuto colorizes only when writing to a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func ParseColorMode(v string) (ColorMode, error) {
	m, ok := map[string]ColorMode{
		"auto":   ColorAuto,
		"always": ColorAlways,
		"never":  ColorNever,
	}[v]
	if ok {
		return m, nil
	}
	return ColorAuto, fmt.Errorf("%w: %q, expected always, auto or never", ErrBadColorMode, v)
}

func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return fmt.Sprintf("<color mode %d>", int(m))
}

func (m ColorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ColorMode) UnmarshalText(d []byte) error {
	pm, err := ParseColorMode(string(d))
	if err != nil {
		return err
	}
	*m = pm
	return nil
}
