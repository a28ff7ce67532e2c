// Package logutil sets up the process-wide structured logger.
package logutil

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the encoding used when none is configured.
	DefaultLogFormat = "text"
)

var bgLogger atomic.Pointer[zap.Logger]

func init() {
	bgLogger.Store(zap.NewNop())
}

// LogConfig holds the settings for InitLogger.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Format is "text" for console output or "json".
	Format string `toml:"format"`
}

// NewLogConfig returns a LogConfig with the given level and format. Empty
// values are replaced with the defaults.
func NewLogConfig(level, format string) LogConfig {
	if level == "" {
		level = DefaultLogLevel
	}
	if format == "" {
		format = DefaultLogFormat
	}
	return LogConfig{Level: level, Format: format}
}

// InitLogger builds a logger from cfg that writes to stderr and makes it the
// one returned by BgLogger.
func InitLogger(cfg LogConfig) error {
	cfg = NewLogConfig(cfg.Level, cfg.Format)

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		zc.Encoding = "json"
	default:
		return fmt.Errorf("log format: unknown format %q", cfg.Format)
	}

	lg, err := zc.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	ReplaceLogger(lg)
	return nil
}

// ReplaceLogger makes lg the logger returned by BgLogger.
func ReplaceLogger(lg *zap.Logger) {
	bgLogger.Store(lg)
}

// BgLogger returns the process-wide logger. It discards everything until
// InitLogger or ReplaceLogger is called.
func BgLogger() *zap.Logger {
	return bgLogger.Load()
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = BgLogger().Sync()
}
