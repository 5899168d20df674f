package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger. Format is "console" or "json".
func newLogger(w io.Writer, s logSettings) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(s.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", s.Level, err)
	}

	var out io.Writer
	switch s.Format {
	case "json":
		out = w
	case "console", "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: want console or json", s.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
