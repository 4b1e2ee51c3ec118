package internal

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// InitLogging builds the process logger. format "console" writes human-readable lines,
// anything else JSON. Unknown levels fall back to info.
func InitLogging(level, format string) zerolog.Logger {
	return NewLogger(os.Stdout, level, format)
}

// NewLogger is InitLogging with an explicit writer.
func NewLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "trixhub").Logger()
}
