package logger

import (
	"os"
	"strings"

	corelogger "github.com/kilianp07/examgrid/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// New returns a Logger tagged with the given component. LOG_BACKEND selects
// zerolog (default) or logrus, APP_ENV=dev switches to human readable output
// and LOG_LEVEL sets the minimum level (debug, info, warn, error).
func New(component string) Logger {
	switch strings.ToLower(os.Getenv("LOG_BACKEND")) {
	case "logrus":
		return NewLogrusLogger(component)
	default:
		return NewZerologLogger(component)
	}
}

func devMode() bool { return strings.ToLower(os.Getenv("APP_ENV")) == "dev" }

func levelName() string {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if lvl == "" {
		return "info"
	}
	return lvl
}
