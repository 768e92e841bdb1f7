// Package bot contains the downloader bot domain module
package bot

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
	telegramDelivery "github.com/twexity/relaybots/internal/domain/bot/delivery/telegram"
	"github.com/twexity/relaybots/internal/domain/bot/repository/http_clients/fastcreate"
	"github.com/twexity/relaybots/internal/domain/bot/repository/postgres"
	"github.com/twexity/relaybots/internal/domain/bot/state"
	"github.com/twexity/relaybots/internal/domain/bot/usecase/business"
	"github.com/twexity/relaybots/internal/domain/bot/workers"
	redisclient "github.com/twexity/relaybots/internal/infrastructure/redis"
	"github.com/twexity/relaybots/internal/infrastructure/telegram"
)

// Module provides downloader bot components for fx dependency injection
var Module = fx.Module("bot",
	// Repository
	fx.Provide(
		postgres.NewUserRepository,
		postgres.NewChannelRepository,
		postgres.NewMembershipRepository,
		postgres.NewStatsRepository,
		fastcreate.NewClient,
		provideSessionStore,
	),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Workers
	workers.Module,

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger)
}

// provideSessionStore selects the conversation state backend
func provideSessionStore(lc fx.Lifecycle, cfg *config.StateConfig, logger zerolog.Logger) (state.Store, error) {
	if cfg.Backend != config.StateBackendRedis {
		logger.Info().Dur("ttl", cfg.TTL).Msg("Using in-memory session store")
		return state.NewMemoryStore(cfg.TTL), nil
	}

	client, err := redisclient.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info().Msg("Closing redis connection")
			return client.Close()
		},
	})

	logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("Using redis session store")
	return state.NewRedisStore(client, cfg.TTL), nil
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	lc fx.Lifecycle,
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	logger zerolog.Logger,
) {
	// Handlers implements deps.TelegramSender and deps.ChatMemberChecker.
	// This resolves the cycle UseCase -> TelegramSender <- Handlers -> UseCase.
	uc.SetSender(handlers)
	uc.SetMemberChecker(handlers)

	router.RegisterRoutes(bot.Raw())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := router.SetCommands(ctx, bot.Raw()); err != nil {
				logger.Warn().Err(err).Msg("Failed to publish bot commands")
			}
			return nil
		},
	})
}
