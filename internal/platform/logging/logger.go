// Package logging builds the slog logger shared by the commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger settings.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
	File   string // optional rotating log file, written in addition to stdout

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LoadConfig reads LOG_LEVEL, LOG_FORMAT and LOG_FILE.
func LoadConfig() Config {
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if format != "json" {
		format = "text"
	}
	return Config{
		Level:      ParseLevel(os.Getenv("LOG_LEVEL")),
		Format:     format,
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  50,
		MaxBackups: 7,
		MaxAgeDays: 30,
	}
}

// ParseLevel maps debug/info/warn/error to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to out and, when cfg.File is set, to a rotating file.
// The returned closer releases the file.
func New(cfg Config, out io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = io.MultiWriter(out, lj)
		closer = lj
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer
}
