// Package logging builds zap loggers and the HTTP access-log middleware.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger creates a zap logger. Format "console" selects the development
// encoder; anything else logs JSON.
func NewLogger(level, format string) (*zap.Logger, error) {
	var cfg zap.Config

	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg.Level = lvl

	// Output has to stay on stderr: stdout carries tool results.
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
