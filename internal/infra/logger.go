package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger: JSON at Info level in production,
// human-readable console output at Debug level during development. Every
// line carries the service name so aggregated logs stay attributable.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	out := io.Writer(os.Stdout)
	if appEnv == "development" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "veostudio").
		Logger()
}

// Logger aliases zerolog.Logger so the rest of the module depends on the
// logging surface without importing the third-party package directly.
type Logger = zerolog.Logger
