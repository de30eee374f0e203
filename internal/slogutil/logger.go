package slogutil

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/javi11/pngme/internal/config"
)

// ParseLevel maps a config level name to a slog level. Unknown names map
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// SetupLogRotation configures a text logger writing to console.
// If logConfig.File is configured, it logs to both console and a file
// rotated by lumberjack.
// The returned leveler can raise or lower the level after setup.
func SetupLogRotation(console io.Writer, logConfig config.LogConfig) (*slog.Logger, *DynamicLeveler) {
	writer := console

	if logConfig.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   logConfig.File,
			MaxSize:    logConfig.MaxSize,    // MB
			MaxBackups: logConfig.MaxBackups, // number of old files
			MaxAge:     logConfig.MaxAge,     // days
			Compress:   logConfig.Compress,
		}
		writer = io.MultiWriter(console, fileWriter)
	}

	level := logConfig.Level
	if level == "" {
		level = "warn"
	}
	leveler := NewDynamicLeveler(ParseLevel(level))

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: leveler,
	})

	return slog.New(WrapHandler(handler)), leveler
}
