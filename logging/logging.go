// Package logging configures the charmbracelet/log logger every other
// package derives its per-component logger from via log.With
// (e.g. drivers/ols's New uses log.With("component", "ols")). It
// replaces ad hoc color-coded console printing with structured,
// leveled logging while keeping the same idea: one shared sink,
// human-readable by default, every caller tags its own messages
// rather than routing through a central formatter.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures the process-wide logger Init installs.
type Options struct {
	// Level is one of "debug", "info", "warn", "error"; empty means
	// "info".
	Level string

	// Output receives formatted log lines; nil means stderr.
	Output io.Writer

	// ReportTimestamp includes a timestamp column in each line.
	ReportTimestamp bool
}

// Init installs options as charmbracelet/log's default logger and
// returns it so a caller that wants the root logger directly (rather
// than a per-component .With) can hold onto it.
func Init(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: opts.ReportTimestamp,
		Level:           parseLevel(opts.Level),
	})
	log.SetDefault(logger)
	return logger
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "":
		return log.InfoLevel
	default:
		lvl, err := log.ParseLevel(s)
		if err != nil {
			return log.InfoLevel
		}
		return lvl
	}
}
