// Package logging builds the zerolog logger shared by the claimload
// commands.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns the process logger. "text" gives a human-friendly
// console writer for interactive upload and load runs; any other value
// emits JSON lines, the right choice for scheduled loads whose output
// gets collected.
func Setup(format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
