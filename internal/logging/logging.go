// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Options controls logger construction.
type Options struct {
	// Debug lowers the level to slog.LevelDebug.
	Debug bool
	// File, when set, receives a JSON copy of every record.
	File string
}

func (o Options) level() slog.Level {
	if o.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Setup builds a logger that writes text to stderr and, when opts.File is
// set, JSON to that file. The returned cleanup closes the file.
func Setup(stderr io.Writer, opts Options) (*slog.Logger, func() error, error) {
	level := opts.level()
	if opts.File == "" {
		return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewWithWriters(stderr, file, level), file.Close, nil
}

// NewWithWriters fans records out to a text handler on stderr and a JSON
// handler on file.
func NewWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(stderrHandler, fileHandler))
}

// Install builds the logger via Setup and makes it the default.
func Install(stderr io.Writer, opts Options) (func() error, error) {
	logger, cleanup, err := Setup(stderr, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cleanup, nil
}
