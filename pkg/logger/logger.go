package logger

import (
	"io"
	"log/slog"
	"os"
)

// Options selects the global handler.
type Options struct {
	Debug      bool
	ShowSource bool
	JSON       bool
}

// SetupGlobal logs to stderr so command output on stdout stays clean.
func SetupGlobal(opts Options) {
	slog.SetDefault(New(os.Stderr, opts))
}

// New builds a logger without touching the global default.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.ShowSource,
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}
	return slog.New(handler)
}
