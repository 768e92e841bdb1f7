// Package logger contains logger infrastructure
package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(logCfg *config.LoggingConfig, svcCfg *config.ServiceConfig) zerolog.Logger {
	return New(logCfg.Level, svcCfg.Name)
}
