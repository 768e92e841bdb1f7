package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

// SendText implements deps.TelegramSender interface
func (h *Handlers) SendText(ctx context.Context, chatID int64, text string, kb entities.Keyboard) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: toMarkup(kb),
	})
	if err != nil {
		return h.handleSendError(chatID, err)
	}
	return nil
}

// ReplyText implements deps.TelegramSender interface
func (h *Handlers) ReplyText(ctx context.Context, chatID int64, replyTo int, text string, kb entities.Keyboard) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	params := &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: toMarkup(kb),
	}
	if replyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID:                replyTo,
			AllowSendingWithoutReply: true,
		}
	}

	if _, err := h.bot.SendMessage(ctx, params); err != nil {
		return h.handleSendError(chatID, err)
	}
	return nil
}

// EditText implements deps.TelegramSender interface
func (h *Handlers) EditText(ctx context.Context, chatID int64, messageID int, text string, kb entities.Keyboard) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: toMarkup(kb),
	})
	if err != nil {
		// Pressing the same button twice edits to identical content
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return h.handleSendError(chatID, err)
	}
	return nil
}

// DeleteMessage implements deps.TelegramSender interface
func (h *Handlers) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return h.handleSendError(chatID, err)
	}
	return nil
}

// AnswerCallback implements deps.TelegramSender interface
func (h *Handlers) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		return fmt.Errorf("%w: answer callback: %w", boterrors.ErrTelegramAPI, err)
	}
	return nil
}

// SendPhoto implements deps.TelegramSender interface. Photo is a URL or file_id.
func (h *Handlers) SendPhoto(ctx context.Context, chatID int64, photo, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, MediaTimeout)
	defer cancel()

	_, err := h.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileString{Data: photo},
		Caption: truncateCaption(caption),
	})
	if err != nil {
		return h.handleSendError(chatID, err)
	}
	return nil
}

// SendVideo implements deps.TelegramSender interface. Video is a URL or file_id.
func (h *Handlers) SendVideo(ctx context.Context, chatID int64, video, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, MediaTimeout)
	defer cancel()

	_, err := h.bot.SendVideo(ctx, &tgbot.SendVideoParams{
		ChatID:  chatID,
		Video:   &models.InputFileString{Data: video},
		Caption: truncateCaption(caption),
	})
	if err != nil {
		return h.handleSendError(chatID, err)
	}
	return nil
}

// MemberStatus implements deps.ChatMemberChecker interface
func (h *Handlers) MemberStatus(ctx context.Context, channelID string, userID int64) (entities.MemberStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	member, err := h.bot.GetChatMember(ctx, &tgbot.GetChatMemberParams{
		ChatID: channelID,
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: channel %s: %w", boterrors.ErrMembershipCheckFails, channelID, err)
	}
	return memberStatus(member), nil
}

// handleSendError classifies Telegram API errors for logging
func (h *Handlers) handleSendError(chatID int64, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("User blocked the bot")
	case strings.Contains(errorMsg, "chat not found"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Chat not found")
	case strings.Contains(errorMsg, "Too Many Requests"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Rate limited by Telegram")
	default:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Telegram API call failed")
	}

	return fmt.Errorf("%w: %w", boterrors.ErrTelegramAPI, err)
}
