// Package adapters bridges the application's config and logger to the
// interfaces the pkg/api client expects, so pkg/api never imports internal
// packages.
//
//	cfg := config.NewConfig()
//	cfg.SetDefaults()
//
//	client, err := api.NewClient(adapters.NewConfigAdapter(cfg),
//		api.WithLogger(adapters.NewLoggerAdapter(cfg)),
//		api.WithSession(store))
package adapters

import (
	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/logger"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// ConfigAdapter exposes the connection settings of a config.Config. The
// getters live on config.Config itself so defaults apply in one place.
type ConfigAdapter struct {
	*config.Config
}

// NewConfigAdapter wraps cfg.
func NewConfigAdapter(cfg *config.Config) interfaces.Config {
	return &ConfigAdapter{Config: cfg}
}

// LoggerAdapter is the application logger seen through interfaces.Logger.
type LoggerAdapter struct {
	*logger.Logger
}

// NewLoggerAdapter logs to shoptui.log in the cache directory, falling back
// to stderr when no cache directory is configured or it cannot be written.
func NewLoggerAdapter(cfg *config.Config) interfaces.Logger {
	level := logger.LevelFor(cfg.Debug)

	if cfg.CacheDir != "" {
		if l, err := logger.NewFileLogger(level, cfg.CacheDir); err == nil {
			return &LoggerAdapter{Logger: l}
		}
	}

	return &LoggerAdapter{Logger: logger.NewStderrLogger(level)}
}

// Underlying returns the wrapped logger.
func (l *LoggerAdapter) Underlying() *logger.Logger {
	return l.Logger
}
