package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"hotelstay/internal/config"
)

// New builds the process logger and installs it as the slog default.
// Format "json" or a release gin mode selects the JSON handler.
func New(cfg config.LogConfig, release bool) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, release)
}

func newWithWriter(w io.Writer, cfg config.LogConfig, release bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if release || strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler).With("service", "hotelstay")
	slog.SetDefault(l)
	return l
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
