// Package observability provides logging utilities and the zap-backed
// narration emitter.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/underhall/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NarrationEmitter routes player-visible narration lines through a zap logger
// at info level, tagged so a downstream renderer can filter them.
type NarrationEmitter struct {
	log *zap.Logger
}

// NewNarrationEmitter creates an emitter logging through logger.
//
// Precondition: logger must be non-nil.
func NewNarrationEmitter(logger *zap.Logger) *NarrationEmitter {
	return &NarrationEmitter{log: logger.Named("narration")}
}

// Emit logs one line of narration.
func (n *NarrationEmitter) Emit(msg string) {
	n.log.Info(msg)
}
