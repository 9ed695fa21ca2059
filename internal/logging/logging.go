// Package logging sets up the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"
)

// LevelFromFlags maps the verbosity flags to a level. They are checked in
// the order vv, v, q; the default is warn.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Config selects where log records go. With no File they go to stderr as
// text; with a File they go to a rotating JSON log.
type Config struct {
	Level   slog.Level
	File    string
	MaxSize int // megabytes
	MaxAge  int // days
}

// New builds a logger and a function that releases its file, if any.
func New(c Config, stderr io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.File == "" {
		if stderr == nil {
			stderr = os.Stderr
		}
		return slog.New(slog.NewTextHandler(stderr, opts)), func() error { return nil }
	}
	l := &lumberjack.Logger{
		Filename: c.File,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	return slog.New(slog.NewJSONHandler(l, opts)), l.Close
}

// Setup installs the logger as the slog default.
func Setup(c Config) func() error {
	logger, closer := New(c, os.Stderr)
	slog.SetDefault(logger)
	return closer
}
