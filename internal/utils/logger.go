package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOptions adjusts the console logger.
type LoggerOptions struct {
	// Quiet suppresses informational progress messages.
	Quiet bool
	// NoColor disables colored level names.
	NoColor bool
}

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger(options LoggerOptions) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if options.NoColor {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if options.Quiet {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
