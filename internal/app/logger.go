package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the process logger. JSON output targets log shipping
// in deployed environments and skips source locations; text output is for
// local development, where they help.
func NewLogger(cfg *Config) *slog.Logger {
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
}
