package main

import (
	"context"

	"github.com/scott-cotton/cli"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/internal/command"
)

func main() {
	cli.MainContext(context.Background(), command.Decode("gvas2json", format.JSONFormat))
}
