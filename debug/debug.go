package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Decode bool
	Encode bool
	Hints  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Decode = boolEnv("GVAS_DEBUG_DECODE")
	d.Encode = boolEnv("GVAS_DEBUG_ENCODE")
	d.Hints = boolEnv("GVAS_DEBUG_HINTS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Decode() bool {
	return d.Decode
}
func Encode() bool {
	return d.Encode
}
func Hints() bool {
	return d.Hints
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
