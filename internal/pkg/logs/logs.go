// Package logs builds the application's slog logger.
package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger output and verbosity.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or text
	// File enables rotated file output alongside stdout when non-empty.
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
}

// New builds a logger from config. Output always goes to stdout; when a
// file path is configured it is duplicated to a size-rotated log file.
func New(cfg Config) *slog.Logger {
	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if cfg.File != "" {
		maxSize := cfg.FileMaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: cfg.FileMaxBackups,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	w := io.MultiWriter(writers...)

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
