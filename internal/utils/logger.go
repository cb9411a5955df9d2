package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	consoleEncoding   = "console"
	standardErrorSink = "stderr"
	logMessageKey     = "message"
)

// NewConsoleLogger builds a logger that writes bare messages to standard error so
// standard output carries only command results.
func NewConsoleLogger(level zapcore.Level) (*zap.Logger, error) {
	loggerConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          consoleEncoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		OutputPaths:       []string{standardErrorSink},
		ErrorOutputPaths:  []string{standardErrorSink},
		EncoderConfig:     zapcore.EncoderConfig{MessageKey: logMessageKey},
	}
	return loggerConfig.Build()
}
