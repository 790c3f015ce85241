package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates a structured JSON logger for one kernel component.
// Level comes from BACKTESTER_LOG_LEVEL; default is info.
func New(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(parseLevel(os.Getenv("BACKTESTER_LOG_LEVEL"))).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
