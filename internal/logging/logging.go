// Package logging builds the zerolog logger used across vidscribe.
// Logs go to stderr; stdout carries only the transcript.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	FieldRunID     = "run_id"
	FieldComponent = "component"
)

type Config struct {
	Level   string
	NoColor bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewRunID returns a fresh identifier for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// New creates a console logger tagged with runID.
func New(cfg Config, runID string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	zl := zerolog.New(zerolog.ConsoleWriter{
		Out:         out,
		TimeFormat:  "15:04:05",
		NoColor:     cfg.NoColor,
		FormatLevel: formatLevel(cfg.NoColor),
	}).Level(level).With().Timestamp().Logger()

	if runID != "" {
		zl = zl.With().Str(FieldRunID, shortID(runID)).Logger()
	}
	return zl
}

// Component returns l tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

func formatLevel(noColor bool) zerolog.Formatter {
	return func(i interface{}) string {
		lvl := strings.ToLower(fmt.Sprintf("%s", i))
		if noColor {
			return "[" + lvl + "]"
		}
		switch lvl {
		case "trace", "debug":
			return "\033[36m[" + lvl + "]\033[0m"
		case "info":
			return "\033[34m[" + lvl + "]\033[0m"
		case "warn":
			return "\033[33m[" + lvl + "]\033[0m"
		case "error", "fatal", "panic":
			return "\033[31m[" + lvl + "]\033[0m"
		default:
			return "[" + lvl + "]"
		}
	}
}

// shortID trims a run id to its first block.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
