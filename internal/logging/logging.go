// Package logging builds the statuswatch CLI logger: human-readable lines on
// the console and in a size-rotated log file.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultComponent is attached to every line as the component attribute.
	DefaultComponent = "ServerMonitor"

	// DefaultFile is the rotated log file name.
	DefaultFile = "server_monitor.log"

	// DefaultMaxSizeMB is the size at which the log file is rotated.
	DefaultMaxSizeMB = 10

	// DefaultMaxBackups is the number of rotated files kept.
	DefaultMaxBackups = 3
)

// Options configures [New]. Zero values take the package defaults, except
// File: an empty File disables file output.
type Options struct {
	Component  string
	Level      slog.Level
	File       string
	MaxSizeMB  int
	MaxBackups int

	// Console receives the console copy. Defaults to os.Stderr.
	Console io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to the console and, if opts.File is set, to a
// rotating file. The returned Closer releases the file and must be called on
// exit.
func New(opts Options) (*slog.Logger, io.Closer) {
	if opts.Component == "" {
		opts.Component = DefaultComponent
	}
	if opts.Console == nil {
		opts.Console = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	handlers := []slog.Handler{slog.NewTextHandler(opts.Console, handlerOpts)}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if opts.MaxSizeMB <= 0 {
			opts.MaxSizeMB = DefaultMaxSizeMB
		}
		if opts.MaxBackups <= 0 {
			opts.MaxBackups = DefaultMaxBackups
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			LocalTime:  true,
		}
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
		closer = file
	}

	logger := slog.New(slogmulti.Fanout(handlers...)).With("component", opts.Component)
	return logger, closer
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a
// slog.Level. Unknown names give info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
