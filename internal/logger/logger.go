package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New creates a zerolog logger writing to out in console or json format.
func New(out io.Writer, logLevel int, logFormat string) zerolog.Logger {
	writer := out
	if logFormat != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    out != os.Stdout && out != os.Stderr,
		}
	}

	return zerolog.New(writer).
		Level(zerolog.Level(logLevel)).
		With().
		Timestamp().
		Logger()
}

// Init installs the process-wide logger. When enabled is false every log call is discarded,
// which keeps stdout clean for the stdio MCP transport.
func Init(enabled bool, logLevel int, logFormat string) zerolog.Logger {
	if !enabled {
		log.Logger = zerolog.Nop()
		return log.Logger
	}
	// stdio mode owns stdout, so logs always go to stderr
	log.Logger = New(os.Stderr, logLevel, logFormat)
	return log.Logger
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
