package convert

import (
	"io"
	"log/slog"

	"github.com/signadot/gvas-format/format"
	"github.com/signadot/gvas-format/gvas"
)

// Config holds the settings shared by both conversion directions.
type Config struct {
	Format      format.Format
	Pretty      bool
	GameVersion gvas.GameVersion
	Hints       gvas.Hints
	Log         *slog.Logger
}

func (cfg *Config) log() *slog.Logger {
	if cfg.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg.Log
}
