package main

import (
	"context"

	"github.com/scott-cotton/cli"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/internal/command"
)

func main() {
	cli.MainContext(context.Background(), command.Encode("json2gvas", format.JSONFormat))
}
