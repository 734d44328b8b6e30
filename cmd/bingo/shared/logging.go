package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a timestamped console logger on stderr
func SetupLogger(debug bool) *log.Logger {
	return NewLogger(os.Stderr, levelFor(debug))
}

// NewLogger returns a timestamped logger writing to w at level
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// SetupFileLogger appends to filename so terminal UIs keep a clean screen.
// The returned file must be closed by the caller.
func SetupFileLogger(filename string, debug bool) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           levelFor(debug),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return logger, f, nil
}

func levelFor(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}
