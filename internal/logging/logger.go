// Package logging builds the zap logger used by the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Quiet raises the level to error regardless of Level.
	Quiet bool

	// Verbose lowers the level to debug regardless of Level. Quiet wins
	// when both are set.
	Verbose bool

	// OutputPath defaults to stderr so stdout carries only the summary.
	OutputPath string
}

// New creates a console-encoded logger.
func New(config Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}
	switch {
	case config.Quiet:
		level.SetLevel(zapcore.ErrorLevel)
	case config.Verbose:
		level.SetLevel(zapcore.DebugLevel)
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = level
	zapConfig.Encoding = "console"
	zapConfig.Development = false
	zapConfig.DisableStacktrace = true
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zapConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	output := config.OutputPath
	if output == "" {
		output = "stderr"
	}
	zapConfig.OutputPaths = []string{output}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	return zapConfig.Build()
}
