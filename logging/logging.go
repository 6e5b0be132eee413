// Package logging provides a small, standardized zap setup for the storage
// core. Components accept an injected *zap.Logger (defaulting to a no-op
// logger) rather than reaching for a package-global.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls level, format and destination of a logger built by New.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// Format is "json" or "console". Defaults to "console".
	Format string
	// Output is "stdout", "stderr", or a file path. Defaults to "stdout".
	Output string
}

// New builds a *zap.Logger from cfg. On error it returns a nil logger;
// callers that don't care about logging should use Nop() instead of ignoring
// New's error.
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	sink, err := writeSyncer(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder(cfg.Format), sink, level)
	return zap.New(core).WithOptions(zap.Fields(zap.String("component", "corevault"))), nil
}

// Nop returns a logger that discards everything, used as the zero value for
// components that were not given an explicit logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if strings.ToLower(format) == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func writeSyncer(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", output, err)
		}
		return zapcore.AddSync(f), nil
	}
}
