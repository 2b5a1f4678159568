package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the base logger. Dev mode writes colored console lines at debug
// level; otherwise JSON at info level.
func New(devMode bool) zerolog.Logger {
	return newLogger(os.Stderr, devMode)
}

func newLogger(out io.Writer, devMode bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if devMode {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "aiddesk").
		Logger()
}
