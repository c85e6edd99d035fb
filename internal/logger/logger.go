package logger

import (
	"io"
	"os"
	"time"

	"played-together/internal/config"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New writes to stderr so stdout stays reserved for query output.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(os.Stderr, cfg.LogFormat, cfg.Level())
}

func NewWithWriter(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := w
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(level)
}
