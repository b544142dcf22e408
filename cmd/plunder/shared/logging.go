package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a console logger on stderr.
func SetupLogger(debug bool) *log.Logger {
	return newLogger(os.Stderr, debug)
}

// SetupFileLogger logs to path, or discards everything when path is empty.
// The terminal client owns the screen, so it must not log to stderr.
func SetupFileLogger(path string, debug bool) (*log.Logger, func() error, error) {
	if path == "" {
		return log.NewWithOptions(io.Discard, log.Options{}), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, debug), f.Close, nil
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}
