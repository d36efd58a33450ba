package config

import (
	"log/slog"
	"strings"
	"time"
)

// appDir is the directory name used under ~/.config.
const appDir = "production-report"

// Default values
const (
	defaultProduct       = "NZT"
	defaultRenderTimeout = 10 * time.Second
	defaultRole          = "admin"
	defaultLogLevel      = "info"
)

// parseLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func parseLevel(s string) slog.Level {
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
