package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names shared across log lines
const (
	FieldMonth        = "month"
	FieldFile         = "file"
	FieldRows         = "rows"
	FieldID           = "id"
	FieldDate         = "date"
	FieldCategory     = "category"
	FieldCategories   = "categories"
	FieldTotalExpense = "total_expense"
	FieldCommand      = "command"
)

// New builds a console logger writing to stderr at the given level, so that
// reports on stdout stay clean.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Development = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
