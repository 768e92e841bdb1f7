package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/twexity/relaybots/internal/domain/bot/consts"
	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

// toMarkup converts a domain keyboard into an inline keyboard.
// An empty keyboard yields nil so no markup field is sent.
func toMarkup(kb entities.Keyboard) models.ReplyMarkup {
	if kb.Count() == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			button := models.InlineKeyboardButton{Text: b.Text}
			if b.URL != "" {
				button.URL = b.URL
			} else {
				button.CallbackData = b.Data
			}
			buttons = append(buttons, button)
		}
		rows = append(rows, buttons)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func memberStatus(member *models.ChatMember) entities.MemberStatus {
	if member == nil {
		return entities.MemberStatusLeft
	}
	return entities.MemberStatus(member.Type)
}

func senderFromUser(u *models.User) dto.Sender {
	if u == nil {
		return dto.Sender{}
	}
	return dto.Sender{
		UserID:    u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// forwardedChannel returns the channel msg was forwarded from, or nil
func forwardedChannel(msg *models.Message) *dto.ForwardedChannel {
	if msg == nil || msg.ForwardOrigin == nil {
		return nil
	}
	if msg.ForwardOrigin.Type != models.MessageOriginTypeChannel || msg.ForwardOrigin.MessageOriginChannel == nil {
		return nil
	}

	chat := msg.ForwardOrigin.MessageOriginChannel.Chat
	return &dto.ForwardedChannel{
		ID:       chat.ID,
		Username: chat.Username,
		Title:    chat.Title,
	}
}

func messageRequest(msg *models.Message) *dto.MessageRequest {
	req := &dto.MessageRequest{
		Sender:    senderFromUser(msg.From),
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      msg.Text,
		Caption:   msg.Caption,
	}
	if n := len(msg.Photo); n > 0 {
		req.PhotoFileID = msg.Photo[n-1].FileID
	}
	if msg.Video != nil {
		req.VideoFileID = msg.Video.FileID
	}
	return req
}

func callbackRequest(q *models.CallbackQuery) *dto.CallbackRequest {
	req := &dto.CallbackRequest{
		CallbackID: q.ID,
		Sender:     senderFromUser(&q.From),
		ChatID:     q.From.ID,
		Data:       q.Data,
	}
	if msg := q.Message.Message; msg != nil {
		req.ChatID = msg.Chat.ID
		req.MessageID = msg.ID
	} else if msg := q.Message.InaccessibleMessage; msg != nil {
		req.ChatID = msg.Chat.ID
		req.MessageID = msg.MessageID
	}
	return req
}

// isCommand reports whether msg starts with a bot command entity
func isCommand(msg *models.Message) bool {
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}

func truncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= consts.MaxCaptionLength {
		return caption
	}
	return string(runes[:consts.MaxCaptionLength])
}
