package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger replaces zerolog's global logger. Unknown levels fall back to info.
func InitLogger(level string, pretty bool) {
	log.Logger = NewLogger("blockscan", level, pretty, os.Stderr)
}

func NewLogger(name, level string, pretty bool, out io.Writer) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && parsed != zerolog.NoLevel {
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).With().Timestamp().Str("component", name).Logger()
}
