// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/twexity/relaybots/internal/infrastructure/database"
	"github.com/twexity/relaybots/internal/infrastructure/http"
	"github.com/twexity/relaybots/internal/infrastructure/logger"
	"github.com/twexity/relaybots/internal/infrastructure/metrics"
	"github.com/twexity/relaybots/internal/infrastructure/telegram"
)

// DownloaderModule provides infrastructure for the downloader bot: it
// polls Telegram for updates and owns the relational store.
var DownloaderModule = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	database.Module,
	telegram.Module,
	http.Module,
)

// TrackerModule provides infrastructure for the tracker: outbound
// Telegram calls only, no store.
var TrackerModule = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.SenderModule,
	http.Module,
)
