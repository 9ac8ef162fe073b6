package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/store"
)

// newFileLogger returns a text logger appending to the configured log
// file. The TUI owns the terminal, so nothing is written to stderr.
func newFileLogger(lc config.LogConfig) (*slog.Logger, func() error, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}

	path := lc.File
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}

// newJSONLogger returns a JSON logger writing to w.
func newJSONLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}
