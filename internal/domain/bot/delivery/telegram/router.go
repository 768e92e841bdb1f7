package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/internal/domain/bot/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all handlers on the bot.
// Message matching excludes commands so an update reaches exactly one handler.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandStart.Name, tgbot.MatchTypeCommandStartOnly, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandAdmin.Name, tgbot.MatchTypeCommandStartOnly, r.handlers.HandleAdmin)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandAddChannel.Name, tgbot.MatchTypeCommandStartOnly, r.handlers.HandleAddChannel)

	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "", tgbot.MatchTypePrefix, r.handlers.HandleCallback)
	bot.RegisterHandlerMatchFunc(matchMessage, r.handlers.HandleMessage)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// SetCommands publishes the command menu
func (r *Router) SetCommands(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands})
	return err
}
