// Package log configures the shared file-backed logger. Bubble Tea owns the
// terminal, so diagnostics never go to stdout or stderr.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup points the logger at path with the given level. Until Setup is called
// (or if it fails) log output is discarded, which keeps the TUI usable even
// when the log file cannot be opened.
func Setup(path, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logger.SetOutput(f)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// L returns the shared logger.
func L() *logrus.Logger { return logger }

// WithField is shorthand for L().WithField.
func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}
