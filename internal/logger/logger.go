// Package logger builds the process-wide zap logger. Components derive named
// children from it (bill.service, erpnext.publisher, ...) instead of
// constructing their own.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLevel = "info"

// New builds a production JSON logger at the given level (debug, info, warn,
// error) and installs it as the zap global.
func New(level string) (*zap.Logger, error) {
	if level == "" {
		level = defaultLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
