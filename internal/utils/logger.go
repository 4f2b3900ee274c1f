package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const invalidLogLevelFormat = "invalid log level %q: %w"

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output on stderr. An empty level name selects info.
func NewApplicationLogger(levelName string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if trimmed := strings.TrimSpace(levelName); trimmed != "" {
		parsedLevel, parseError := zapcore.ParseLevel(trimmed)
		if parseError != nil {
			return nil, fmt.Errorf(invalidLogLevelFormat, levelName, parseError)
		}
		level = parsedLevel
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
