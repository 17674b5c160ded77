// Package obs provides the structured logger shared across the
// listener, connection handler, sweeper, and CLI. Built on
// github.com/rs/zerolog (see DESIGN.md for why this library was
// adopted in place of the teacher's bare log/fmt.Printf calls).
package obs

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger for the given level/format pair, as
// loaded from Config.LogLevel/Config.LogFormat.
func New(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out zerolog.Logger
	if strings.EqualFold(format, "json") {
		out = zerolog.New(os.Stdout)
	} else {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	}
	return out.Level(lvl).With().Timestamp().Logger()
}
