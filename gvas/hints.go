package gvas

import (
	"fmt"
	"strings"

	"github.com/signadot/gvas-format/debug"
)

// Hints maps property paths to struct type names for properties whose
// element struct type is not recorded in the save file.
type Hints map[string]string

// ParseHints parses "path=type" entries. Later entries for the same path
// replace earlier ones.
func ParseHints(entries []string) (Hints, error) {
	res := make(Hints, len(entries))
	for _, e := range entries {
		path, tag, err := ParseHint(e)
		if err != nil {
			return nil, err
		}
		res[path] = tag
	}
	return res, nil
}

func ParseHint(entry string) (path, tag string, err error) {
	parts := strings.Split(entry, "=")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q should be in the format path=type", ErrInvalidHint, entry)
	}
	return parts[0], parts[1], nil
}

// Set adds or replaces a single "path=type" entry.
func (h Hints) Set(entry string) error {
	path, tag, err := ParseHint(entry)
	if err != nil {
		return err
	}
	h[path] = tag
	return nil
}

// lookup tries the exact path first and then the path with its element
// index segments removed.
func (h Hints) lookup(path []string) (string, bool) {
	full := strings.Join(path, ".")
	if tag, ok := h[full]; ok {
		if debug.Hints() {
			debug.Logf("hint %s=%s\n", full, tag)
		}
		return tag, true
	}
	short := make([]string, 0, len(path))
	for _, seg := range path {
		if isIndex(seg) {
			continue
		}
		short = append(short, seg)
	}
	if len(short) == len(path) {
		return "", false
	}
	tag, ok := h[strings.Join(short, ".")]
	if ok && debug.Hints() {
		debug.Logf("hint %s=%s (for %s)\n", strings.Join(short, "."), tag, full)
	}
	return tag, ok
}

func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}
