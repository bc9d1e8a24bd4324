// Package logging builds the zap loggers used by mapbench.
//
// Command-line runs log to stderr. The interactive workbench owns the
// terminal, so it logs to a file under the data root instead.
package logging

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileName is the file the TUI logger appends to inside the logs directory.
const LogFileName = "mapbench.log"

// ParseLevel converts a config level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New returns a production logger writing to stderr. verbose forces the
// debug level regardless of level.
func New(level string, verbose bool) (*zap.Logger, error) {
	return build(level, verbose, []string{"stderr"})
}

// NewFile returns a logger that appends to logsDir/mapbench.log.
func NewFile(logsDir, level string, verbose bool) (*zap.Logger, error) {
	return build(level, verbose, []string{filepath.Join(logsDir, LogFileName)})
}

func build(level string, verbose bool, outputs []string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = outputs
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
