// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Options selects where logs go.
type Options struct {
	Level string
	// File receives logs when set. Interactive sessions own the terminal,
	// so without a file they discard logs.
	File        string
	Interactive bool
	Stderr      io.Writer
}

// Init builds the logger described by opts and installs it as the slog
// default. The returned closer must be called on shutdown.
func Init(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = opts.Stderr
		closer io.Closer = nopCloser{}
	)
	if w == nil {
		w = os.Stderr
	}
	switch {
	case opts.File != "":
		f, err := tea.LogToFile(opts.File, "pulse")
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	case opts.Interactive:
		w = io.Discard
	}

	logger := New(w, level)
	slog.SetDefault(logger)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
