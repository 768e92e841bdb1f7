package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/infrastructure/metrics"
)

// Module provides the Telegram bot and runs long polling for the app lifetime
var Module = fx.Module("telegram",
	fx.Provide(provideBot),
	fx.Invoke(registerLifecycle),
)

// SenderModule provides the Telegram bot for outbound calls only
var SenderModule = fx.Module("telegram-sender",
	fx.Provide(provideBot),
)

// provideBot creates Telegram bot from config
func provideBot(cfg *config.TelegramConfig, m *metrics.Metrics, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.BotToken, m, logger)
}

// registerLifecycle registers bot lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, bot *Bot) {
	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go func() {
				defer close(done)
				_ = bot.Start(ctx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}

			select {
			case <-done:
			case <-ctx.Done():
			}
			return bot.Stop()
		},
	})
}
