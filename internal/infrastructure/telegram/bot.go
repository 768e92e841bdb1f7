// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/internal/infrastructure/metrics"
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewBot creates a new Telegram bot wrapper. Updates are handled one at a
// time and a panicking handler is recovered so the next update still runs.
func NewBot(token string, m *metrics.Metrics, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	logger = logger.With().Str("component", "telegram").Logger()

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(defaultHandler(logger)),
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithMiddlewares(recoverMiddleware(m, logger)),
		tgbot.WithErrorsHandler(func(err error) {
			logger.Warn().Err(err).Msg("Telegram polling error")
		}),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Msg("Telegram bot created successfully")

	return &Bot{
		bot:    bot,
		logger: logger,
	}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Start starts long polling (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

func recoverMiddleware(m *metrics.Metrics, logger zerolog.Logger) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					m.RecordHandlerPanic()
					logger.Error().
						Interface("panic", r).
						Int64("update_id", update.ID).
						Str("stack", string(debug.Stack())).
						Msg("Recovered from panic in update handler")
				}
			}()
			next(ctx, bot, update)
		}
	}
}

// defaultHandler logs updates no registered handler matched
func defaultHandler(logger zerolog.Logger) tgbot.HandlerFunc {
	return func(_ context.Context, _ *tgbot.Bot, update *models.Update) {
		logger.Debug().Int64("update_id", update.ID).Msg("Ignoring unhandled update")
	}
}
