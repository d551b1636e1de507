// Package obslog sets up the engine's structured logger: a console
// tee for humans and a JSON file for machine consumption, the same
// split the teacher's logging package wires up.
package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger that writes colored, human-readable records
// to stdout at consoleLevel and JSON records to a timestamped file
// under logsDir at Debug level. component prefixes the log file name
// (e.g. "search", "rosterctl").
func New(component string, logsDir string, consoleLevel zapcore.Level) (*zap.Logger, error) {
	if logsDir == "" {
		logsDir = "logs"
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", component, timestamp))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(os.Stdout), consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewNop returns a logger that discards everything, for use in tests
// and library callers that don't want the engine's own log streams.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// GenerationFields builds the structured fields the search loop logs
// once per generation: the best chromosome's fitness and hard/soft
// counts plus the stagnation counter. The population's average fitness
// is not among them. The field set has one definition shared by every
// caller instead of being named ad hoc at each log call site.
func GenerationFields(generation int, bestFitness float64, hardCount, softCount, stagnation int) []zap.Field {
	return []zap.Field{
		zap.Int("generation", generation),
		zap.Float64("best_fitness", bestFitness),
		zap.Int("hard_count", hardCount),
		zap.Int("soft_count", softCount),
		zap.Int("stagnation", stagnation),
	}
}
