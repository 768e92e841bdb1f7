// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/usecase/business"
)

// Timeouts for Telegram API calls
const (
	RequestTimeout = 30 * time.Second
	MediaTimeout   = 120 * time.Second
)

// Handlers contains Telegram update handlers.
// Implements deps.TelegramSender and deps.ChatMemberChecker interfaces.
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger.With().Str("component", "telegram-handlers").Logger(),
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	req, ok := commandRequest(update)
	if !ok {
		return
	}

	h.logCommand(req.Sender.UserID, "/start", "processing")

	if err := h.uc.HandleStart(ctx, req); err != nil {
		h.replyError(ctx, req, "/start", err)
	}
}

// HandleAdmin handles /admin command
func (h *Handlers) HandleAdmin(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	req, ok := commandRequest(update)
	if !ok {
		return
	}

	h.logCommand(req.Sender.UserID, "/admin", "processing")

	if err := h.uc.HandleAdmin(ctx, req); err != nil {
		h.replyError(ctx, req, "/admin", err)
	}
}

// HandleAddChannel handles /addchannel sent as a reply to a forwarded channel post
func (h *Handlers) HandleAddChannel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	req, ok := commandRequest(update)
	if !ok {
		return
	}

	h.logCommand(req.Sender.UserID, "/addchannel", "processing")

	addReq := &dto.AddChannelRequest{
		CommandRequest: *req,
		Channel:        forwardedChannel(update.Message.ReplyToMessage),
	}
	if err := h.uc.HandleAddChannel(ctx, addReq); err != nil {
		h.replyError(ctx, req, "/addchannel", err)
	}
}

// HandleCallback handles inline keyboard button presses
func (h *Handlers) HandleCallback(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	req := callbackRequest(update.CallbackQuery)
	h.logCommand(req.Sender.UserID, "callback:"+req.Data, "processing")

	if err := h.uc.HandleCallback(ctx, req); err != nil {
		text, rejected := userReply(err)
		h.logFailure(req.Sender.UserID, "callback:"+req.Data, err, rejected)
		if answerErr := h.AnswerCallback(ctx, req.CallbackID, text, !rejected); answerErr != nil {
			h.logger.Debug().Err(answerErr).Msg("Failed to answer callback after error")
		}
	}
}

// HandleMessage handles any message that is not a command
func (h *Handlers) HandleMessage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	req := messageRequest(msg)
	if err := h.uc.HandleMessage(ctx, req); err != nil {
		h.replyError(ctx, &dto.CommandRequest{Sender: req.Sender, ChatID: req.ChatID, MessageID: req.MessageID}, "message", err)
	}
}

// matchMessage selects updates routed to HandleMessage
func matchMessage(update *models.Update) bool {
	return update.Message != nil && update.Message.From != nil && !isCommand(update.Message)
}

func commandRequest(update *models.Update) (*dto.CommandRequest, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil, false
	}
	return &dto.CommandRequest{
		Sender:    senderFromUser(msg.From),
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	}, true
}

// replyError answers a failed update. A rejection is replied to the
// triggering message; any other failure gets the generic failure text.
func (h *Handlers) replyError(ctx context.Context, req *dto.CommandRequest, command string, err error) {
	text, rejected := userReply(err)
	h.logFailure(req.Sender.UserID, command, err, rejected)

	var sendErr error
	if rejected {
		sendErr = h.ReplyText(ctx, req.ChatID, req.MessageID, text, nil)
	} else {
		sendErr = h.SendText(ctx, req.ChatID, text, nil)
	}
	if sendErr != nil {
		h.logger.Debug().Err(sendErr).Int64("chat_id", req.ChatID).Msg("Failed to send failure notice")
	}
}

// logCommand logs command processing
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Command processed")
}

// logFailure logs rejections as warnings and everything else as errors
func (h *Handlers) logFailure(userID int64, command string, err error, rejected bool) {
	if rejected {
		h.logger.Warn().Err(err).Int64("user_id", userID).Str("command", command).Msg("Command rejected")
		return
	}
	h.logger.Error().Err(err).Int64("user_id", userID).Str("command", command).Msg("Command failed")
}
