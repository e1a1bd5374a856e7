package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/signadot/gvas-format/encode"
	"github.com/signadot/gvas-format/format"
)

// DefaultPager is run when neither Options.Pager nor $PAGER is set.
const DefaultPager = "less"

type Options struct {
	// OutputPath, when set, receives the text instead of the writer given
	// to New. Writing to a file disables color and paging.
	OutputPath string
	Color      ColorMode
	NoPager    bool
	// Pager overrides $PAGER.
	Pager string
}

// Renderer delivers converted text to a file, a pager or a writer.
type Renderer struct {
	opts Options
	out  io.Writer

	// Terminal reports whether the writer is a terminal.
	Terminal bool
}

func New(out io.Writer, opts Options) *Renderer {
	r := &Renderer{opts: opts, out: out}
	if f, ok := out.(*os.File); ok {
		r.Terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return r
}

// Colorize reports whether text in format f should carry color.
func (r *Renderer) Colorize(f format.Format) bool {
	if !f.IsJSON() || r.opts.OutputPath != "" {
		return false
	}
	switch r.opts.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return r.Terminal
}

// Colors returns the palette for text in format f, or nil for plain text.
// In auto mode the palette honours NO_COLOR.
func (r *Renderer) Colors(f format.Format) *encode.Colors {
	if !r.Colorize(f) {
		return nil
	}
	if r.opts.Color == ColorAlways {
		return encode.ForceColors()
	}
	return encode.NewColors()
}

func (r *Renderer) Paging() bool {
	return r.opts.OutputPath == "" && !r.opts.NoPager && r.Terminal
}

// Normalize ends uncolored text with exactly one newline. Colored text is
// returned unchanged.
func Normalize(text string, colored bool) string {
	if colored {
		return text
	}
	return strings.TrimRight(text, "\n") + "\n"
}

// Render writes text. The output file, if any, is created here so that a
// failed conversion leaves no file behind.
func (r *Renderer) Render(text string, colored bool) error {
	text = Normalize(text, colored)
	if r.opts.OutputPath != "" {
		return WriteFile(r.opts.OutputPath, func(w io.Writer) error {
			_, err := io.WriteString(w, text)
			return err
		})
	}
	if r.Paging() {
		return r.page(text)
	}
	return r.write(text)
}

// WriteFile creates path and fills it with write. When write or closing
// fails, a regular file is removed again so no partial output is left.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	fi, serr := f.Stat()
	regular := serr == nil && fi.Mode().IsRegular()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
		if err != nil && regular {
			os.Remove(path)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func (r *Renderer) write(text string) error {
	if _, err := io.WriteString(r.out, text); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func (r *Renderer) pagerCommand() []string {
	pager := r.opts.Pager
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	args := strings.Fields(pager)
	if len(args) == 0 {
		return []string{DefaultPager}
	}
	return args
}

// page pipes text through the pager. A pager that cannot be found is
// skipped and the text written directly.
func (r *Renderer) page(text string) error {
	args := r.pagerCommand()
	path, err := exec.LookPath(args[0])
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return r.write(text)
	}
	if err != nil {
		return fmt.Errorf("%w: pager %s: %w", ErrIO, args[0], err)
	}
	cmd := exec.Command(path, args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = r.out
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if _, ok := os.LookupEnv("LESS"); !ok {
		cmd.Env = append(cmd.Env, "LESS=FRX")
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: pager %s: %w", ErrIO, args[0], err)
	}
	return nil
}
