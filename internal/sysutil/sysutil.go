// Package sysutil holds process-level bootstrap helpers shared by binaries.
package sysutil

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog output: the minimum level and,
// when pretty is true, a human-readable console writer for local development.
// Production keeps the default JSON writer.
func SetupLogger(level string, pretty bool) {
	zerolog.SetGlobalLevel(parseLevel(level))
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// SetLogLevel sets only the global level. Accepted values (case-insensitive):
// debug, info, warn/warning, error, fatal, panic. Anything else means info.
func SetLogLevel(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
