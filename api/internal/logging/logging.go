package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical — уровень для отказов, после которых опрос API бессмыслен.
const LevelCritical = slog.Level(12)

type Options struct {
	// Path — файл, в который дописываются логи (рядом с процессом, main.log).
	Path  string
	Level string
	// Console — куда ещё писать; по умолчанию os.Stdout.
	Console io.Writer
}

// ParseLevel понимает DEBUG, INFO, WARN, ERROR, CRITICAL. Остальное — INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "CRITICAL":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// New собирает текстовый логгер, пишущий одновременно в консоль и в файл.
// Closer закрывает файл.
func New(opt Options) (*slog.Logger, io.Closer, error) {
	console := opt.Console
	if console == nil {
		console = os.Stdout
	}

	var (
		w      = console
		closer io.Closer = nopCloser{}
	)
	if opt.Path != "" {
		f, err := os.OpenFile(opt.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(console, f)
		closer = f
	}

	return NewWithWriter(w, ParseLevel(opt.Level)), closer, nil
}

func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	})
	return slog.New(h)
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}

func Critical(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	l.Log(ctx, LevelCritical, msg, args...)
}

// Discard — логгер для тестов и для мест, где логировать некуда.
func Discard() *slog.Logger {
	return NewWithWriter(io.Discard, slog.LevelDebug)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
