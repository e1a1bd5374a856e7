package gvas

import "fmt"

// GameVersion selects title specific framing around the GVAS payload.
type GameVersion int

const (
	// Default is a plain GVAS file.
	Default GameVersion = iota
	// Palworld wraps the GVAS payload in zlib compressed PlZ framing.
	Palworld
)

// SelectGameVersion maps the -palworld switch to a GameVersion.
func SelectGameVersion(palworld bool) GameVersion {
	if palworld {
		return Palworld
	}
	return Default
}

// ParseGameVersion parses a game version name as printed by String.
func ParseGameVersion(v string) (GameVersion, error) {
	gv, ok := map[string]GameVersion{
		"":         Default,
		"default":  Default,
		"palworld": Palworld,
	}[v]
	if !ok {
		return Default, fmt.Errorf("unknown game version %q", v)
	}
	return gv, nil
}

func (v GameVersion) String() string {
	switch v {
	case Default:
		return "default"
	case Palworld:
		return "palworld"
	default:
		return fmt.Sprintf("<game version %d>", int(v))
	}
}
