package command

import (
	"fmt"
	"io"
	"slices"

	"github.com/scott-cotton/cli"

	"github.com/signadot/gvas-format/convert"
	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/gvas"
	"github.com/signadot/gvas-format/render"
)

type DecodeConfig struct {
	Output   string `cli:"name=o aliases=output desc='write to this file instead of stdout'"`
	Pretty   bool   `cli:"name=p aliases=pretty desc='indent the output, on by default'"`
	Color    string `cli:"name=color desc='colorize JSON: always, auto or never' default=auto"`
	NoPager  bool   `cli:"name=no-pager desc='never page terminal output'"`
	Palworld bool   `cli:"name=palworld desc='the save uses Palworld compression'"`
	Verbose  bool   `cli:"name=v aliases=verbose desc='log each conversion step'"`

	Hints gvas.Hints

	format  format.Format
	Command *cli.Command
}

// Decode returns the command that converts a save file to text in format f.
func Decode(name string, f format.Format) *cli.Command {
	cfg := &DecodeConfig{
		Pretty: true,
		Color:  render.ColorAuto.String(),
		Hints:  gvas.Hints{},
		format: f,
	}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	if f.IsYAML() {
		opts = slices.DeleteFunc(opts, func(o *cli.Opt) bool { return o.Name == "p" })
	}
	opts = append(opts, &cli.Opt{
		Name:        "t",
		Aliases:     []string{"type"},
		Description: "struct type of a set or map property, repeatable",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.hintOpt), "(path=type)"),
	})
	return cli.NewCommandAt(&cfg.Command, name).
		WithSynopsis(name + " [opts] [INPUT_FILE]").
		WithDescription(fmt.Sprintf("%s converts a GVAS save file to %s. INPUT_FILE defaults to stdin.", name, f)).
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *DecodeConfig) hintOpt(_ *cli.Context, v string) (any, error) {
	if err := cfg.Hints.Set(v); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return v, nil
}

func (cfg *DecodeConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	return cfg.decode(cc.In, cc.Out, cc.Err, args)
}

func (cfg *DecodeConfig) decode(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	input, err := inputArg(args)
	if err != nil {
		return err
	}
	mode, err := render.ParseColorMode(cfg.Color)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	log := newLog(stderr, cfg.Verbose)
	r, err := convert.OpenInput(input, stdin)
	if err != nil {
		return err
	}
	defer r.Close()
	rd := render.New(stdout, render.Options{
		OutputPath: cfg.Output,
		Color:      mode,
		NoPager:    cfg.NoPager,
	})
	return convert.Decode(r, rd, &convert.Config{
		Format:      cfg.format,
		Pretty:      cfg.Pretty,
		GameVersion: gvas.SelectGameVersion(cfg.Palworld),
		Hints:       cfg.Hints,
		Log:         log,
	})
}

func inputArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: expected at most one INPUT_FILE, got %d", cli.ErrUsage, len(args))
}
