// Package logger wraps logrus behind a small surface so the rest of the
// code never imports the logging library directly. Output goes to stderr,
// keeping stdout free for the agent's final answer.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Entry and Fields alias the underlying types for callers.
type Entry = logrus.Entry
type Fields = logrus.Fields

var root = logrus.New()

func init() {
	root.SetOutput(os.Stderr)
	root.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	root.SetLevel(logrus.InfoLevel)
}

// SetVerbose switches debug logging on or off.
func SetVerbose(verbose bool) {
	if verbose {
		root.SetLevel(logrus.DebugLevel)
	} else {
		root.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects the log stream, mainly for tests.
func SetOutput(w io.Writer) {
	root.SetOutput(w)
}

// Named returns an entry tagged with a component field.
func Named(component string) *Entry {
	entry := logrus.NewEntry(root)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

// Infof logs at info level on the root logger.
func Infof(format string, args ...any) {
	root.Infof(format, args...)
}

// Warnf logs at warn level on the root logger.
func Warnf(format string, args ...any) {
	root.Warnf(format, args...)
}

// Fatalf logs at fatal level and exits.
func Fatalf(format string, args ...any) {
	root.Fatalf(format, args...)
}
