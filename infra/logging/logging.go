package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Level maps a verbosity count (-v, -vv) to a log level.
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// New builds a human-readable logger on w tagged with a fresh run id.
func New(w io.Writer, verbosity int, color bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !color}
	return zerolog.New(out).
		Level(Level(verbosity)).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
}
