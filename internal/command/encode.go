package command

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/gvas-format/convert"
	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/gvas"
)

type EncodeConfig struct {
	Output   string `cli:"name=o aliases=output desc='write to this file instead of stdout'"`
	Palworld bool   `cli:"name=palworld desc='write Palworld compressed framing'"`
	Verbose  bool   `cli:"name=v aliases=verbose desc='log each conversion step'"`

	format  format.Format
	Command *cli.Command
}

// Encode returns the command that converts text in format f to a save file.
func Encode(name string, f format.Format) *cli.Command {
	cfg := &EncodeConfig{format: f}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, name).
		WithSynopsis(name + " [opts] [INPUT_FILE]").
		WithDescription(fmt.Sprintf("%s converts %s to a GVAS save file. INPUT_FILE defaults to stdin.", name, f)).
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *EncodeConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	return cfg.encode(cc.In, cc.Out, cc.Err, args)
}

func (cfg *EncodeConfig) encode(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	input, err := inputArg(args)
	if err != nil {
		return err
	}
	r, err := convert.OpenInput(input, stdin)
	if err != nil {
		return err
	}
	defer r.Close()
	return convert.Encode(r, cfg.Output, stdout, &convert.Config{
		Format:      cfg.format,
		GameVersion: gvas.SelectGameVersion(cfg.Palworld),
		Log:         newLog(stderr, cfg.Verbose),
	})
}
