// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot"
	"github.com/twexity/relaybots/internal/domain/tracker"
	"github.com/twexity/relaybots/internal/infrastructure"
	"github.com/twexity/relaybots/internal/infrastructure/http/server"
)

// Liveness texts served on / and /health
var (
	DownloaderBanner = server.Banner{
		Root:   "🤖 Bot is running successfully!",
		Health: "✅ Bot is healthy and running!",
	}
	TrackerBanner = server.Banner{
		Root:   "🤖 TRON Transaction Bot is Running!",
		Health: "✅ Bot is Healthy",
	}
)

// CreateDownloaderApp creates the fx application for the downloader bot
func CreateDownloaderApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),
		fx.Supply(DownloaderBanner),

		// Infrastructure (logger, metrics, database, telegram bot, http)
		infrastructure.DownloaderModule,

		// Domain
		bot.Module,
	)
}

// CreateTrackerApp creates the fx application for the transaction tracker
func CreateTrackerApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.OutTracker),
		fx.Supply(TrackerBanner),

		// Infrastructure (logger, metrics, telegram sender, http)
		infrastructure.TrackerModule,

		// Domain
		tracker.Module,
	)
}
