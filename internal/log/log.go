// Package log configures the process-wide logrus logger. The TUI owns the
// terminal, so output goes to a dated file or nowhere.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

// Options selects the log destination and verbosity.
type Options struct {
	Level  string // logrus level name; unknown values mean info
	Format string // "text" or "json"
	Write  bool   // false discards everything
	Dir    string // default: $XDG_STATE_HOME/reel/logs
}

// Setup points the standard logger at today's log file. The returned func
// closes the file.
func Setup(opts Options) (func() error, error) {
	if !opts.Write {
		logrus.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = filepath.Join(xdg.StateHome, "reel", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if opts.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	logrus.SetLevel(ParseLevel(opts.Level))

	return f.Close, nil
}

// ParseLevel parses a level name, falling back to info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
