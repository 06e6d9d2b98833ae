// Package logger is the process-wide structured logger: slog records fanned
// out to a console handler and an optional rotating log file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`

	// Console is where console records go. Nil means stderr, which keeps
	// stdout free for command output.
	Console io.Writer `yaml:"-"`
}

// DefaultConfig logs INFO and above as text to the console.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FilePath:       "logs/hotelgen.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	closer io.Closer
)

// Initialize replaces the process logger. A previously opened log file is
// closed.
func Initialize(config Config) error {
	level := parseLogLevel(config.Level)
	opts := &slog.HandlerOptions{Level: level}
	var handlers []slog.Handler

	if config.ConsoleEnabled {
		w := config.Console
		if w == nil {
			w = os.Stderr
		}
		handlers = append(handlers, newHandler(w, config.ConsoleFormat, opts))
	}

	var file *lumberjack.Logger
	if config.FileEnabled {
		if config.FilePath == "" {
			return fmt.Errorf("logger: file logging enabled without a file path")
		}
		file = &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.FileMaxSizeMB,
			MaxBackups: config.FileMaxBackups,
			MaxAge:     config.FileMaxAgeDays,
		}
		handlers = append(handlers, newHandler(file, config.FileFormat, opts))
	}

	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}

	var next *slog.Logger
	if len(handlers) == 1 {
		next = slog.New(handlers[0])
	} else {
		next = slog.New(newMultiHandler(handlers...))
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
		closer = nil
	}
	if file != nil {
		closer = file
	}
	logger = next
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLogLevel maps a level name onto slog. Unknown names are INFO.
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns the process logger with attributes attached, for
// components that keep their own logger.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Enabled reports whether records at level would be written.
func Enabled(level slog.Level) bool {
	return current().Enabled(context.Background(), level)
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }

func Debugf(format string, args ...any) { Debug(fmt.Sprintf(format, args...)) }

func Info(msg string, args ...any) { current().Info(msg, args...) }

func Infof(format string, args ...any) { Info(fmt.Sprintf(format, args...)) }

func Warning(msg string, args ...any) { current().Warn(msg, args...) }

func Warningf(format string, args ...any) { Warning(fmt.Sprintf(format, args...)) }

func Error(msg string, args ...any) { current().Error(msg, args...) }

func Errorf(format string, args ...any) { Error(fmt.Sprintf(format, args...)) }

// multiHandler writes each record to every handler enabled for its level.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}
