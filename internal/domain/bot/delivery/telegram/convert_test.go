package telegram

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twexity/relaybots/internal/domain/bot/consts"
	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

func TestToMarkup(t *testing.T) {
	assert.Nil(t, toMarkup(nil))
	assert.Nil(t, toMarkup(entities.Keyboard{}))

	kb := entities.Keyboard{
		{{Text: "Join", URL: "https://t.me/news"}},
		{{Text: "Check", Data: "check_membership"}, {Text: "Close", Data: "close"}},
	}

	markup, ok := toMarkup(kb).(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)

	assert.Equal(t, models.InlineKeyboardButton{Text: "Join", URL: "https://t.me/news"}, markup.InlineKeyboard[0][0])
	assert.Equal(t, models.InlineKeyboardButton{Text: "Close", CallbackData: "close"}, markup.InlineKeyboard[1][1])
}

func TestMemberStatus(t *testing.T) {
	tests := []struct {
		member *models.ChatMember
		want   entities.MemberStatus
		joined bool
	}{
		{member: &models.ChatMember{Type: models.ChatMemberTypeOwner}, want: entities.MemberStatusCreator, joined: true},
		{member: &models.ChatMember{Type: models.ChatMemberTypeAdministrator}, want: entities.MemberStatusAdministrator, joined: true},
		{member: &models.ChatMember{Type: models.ChatMemberTypeMember}, want: entities.MemberStatusMember, joined: true},
		{member: &models.ChatMember{Type: models.ChatMemberTypeLeft}, want: entities.MemberStatusLeft},
		{member: &models.ChatMember{Type: models.ChatMemberTypeBanned}, want: entities.MemberStatusKicked},
		{member: nil, want: entities.MemberStatusLeft},
	}

	for _, tt := range tests {
		got := memberStatus(tt.member)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.joined, got.Joined())
	}
}

func TestForwardedChannel(t *testing.T) {
	assert.Nil(t, forwardedChannel(nil))
	assert.Nil(t, forwardedChannel(&models.Message{Text: "plain"}))
	assert.Nil(t, forwardedChannel(&models.Message{ForwardOrigin: &models.MessageOrigin{Type: models.MessageOriginTypeUser}}))

	msg := &models.Message{
		ForwardOrigin: &models.MessageOrigin{
			Type: models.MessageOriginTypeChannel,
			MessageOriginChannel: &models.MessageOriginChannel{
				Chat: models.Chat{ID: -1001, Username: "news", Title: "News"},
			},
		},
	}
	assert.Equal(t, &dto.ForwardedChannel{ID: -1001, Username: "news", Title: "News"}, forwardedChannel(msg))
}

func TestMessageRequest(t *testing.T) {
	msg := &models.Message{
		ID:      5,
		From:    &models.User{ID: 7, Username: "ali"},
		Chat:    models.Chat{ID: 7},
		Caption: "look",
		Photo:   []models.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}

	req := messageRequest(msg)
	assert.Equal(t, int64(7), req.Sender.UserID)
	assert.Equal(t, 5, req.MessageID)
	assert.Equal(t, "large", req.PhotoFileID)
	assert.Equal(t, entities.BroadcastPhoto, req.Kind())
}

func TestCallbackRequest(t *testing.T) {
	q := &models.CallbackQuery{
		ID:   "cb",
		From: models.User{ID: 7},
		Data: "help",
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 42, Chat: models.Chat{ID: 70}},
		},
	}

	req := callbackRequest(q)
	assert.Equal(t, "cb", req.CallbackID)
	assert.Equal(t, int64(70), req.ChatID)
	assert.Equal(t, 42, req.MessageID)

	q.Message = models.MaybeInaccessibleMessage{}
	req = callbackRequest(q)
	assert.Equal(t, int64(7), req.ChatID)
	assert.Zero(t, req.MessageID)
}

func TestMatchMessage(t *testing.T) {
	user := &models.User{ID: 7}

	assert.False(t, matchMessage(&models.Update{}))
	assert.False(t, matchMessage(&models.Update{Message: &models.Message{Text: "hi"}}), "no sender")
	assert.True(t, matchMessage(&models.Update{Message: &models.Message{From: user, Text: "https://instagram.com/p/x"}}))
	assert.False(t, matchMessage(&models.Update{Message: &models.Message{
		From:     user,
		Text:     "/start",
		Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 6}},
	}}))
}

func TestTruncateCaption(t *testing.T) {
	assert.Equal(t, "short", truncateCaption("short"))

	long := strings.Repeat("ж", consts.MaxCaptionLength+10)
	assert.Len(t, []rune(truncateCaption(long)), consts.MaxCaptionLength)
}
