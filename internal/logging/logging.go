// Package logging builds the zerolog loggers the panel and the CLI use.
// The dashboard owns the terminal, so its logger writes to a file; plain
// subcommands log to stderr.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// File returns a logger appending JSON lines to path. An empty path
// discards all output.
func File(path string) (zerolog.Logger, error) {
	if path == "" {
		return zerolog.New(io.Discard), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return zerolog.New(f).With().Timestamp().Logger(), nil
}

// Console returns a human-readable logger on stderr for non-interactive
// commands.
func Console() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
