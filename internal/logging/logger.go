// Package logging builds the hclog loggers used by the devinfo command.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment variables read by New and Level.
const (
	EnvLogLevel = "DEVINFO_LOG_LEVEL"
	EnvJSONLog  = "DEVINFO_JSON_LOG"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New creates an hclog logger writing UTC timestamps to output (stderr when
// nil). DEVINFO_JSON_LOG=1 switches to JSON; otherwise lines get a prefix.
func New(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	jsonFormat := os.Getenv(EnvJSONLog) == "1"
	if !jsonFormat {
		output = NewPrefixWriter("devinfo ", output)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Level returns flagLevel when set, else DEVINFO_LOG_LEVEL, else
// DefaultLevel. Unrecognised names fall back to DefaultLevel.
func Level(flagLevel string) string {
	level := strings.TrimSpace(flagLevel)
	if level == "" {
		level = strings.TrimSpace(os.Getenv(EnvLogLevel))
	}
	if level == "" || hclog.LevelFromString(level) == hclog.NoLevel {
		return DefaultLevel
	}
	return strings.ToLower(level)
}
