// AngelaMos | 2026
// logger.go

package core

import (
	"io"
	"log/slog"

	"github.com/carterperez-dev/startup-perks/internal/config"
)

// NewLogger builds the process logger. Format "json" selects the JSON
// handler; anything else gets text.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
