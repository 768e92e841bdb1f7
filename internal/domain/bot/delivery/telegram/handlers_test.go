package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot/callback"
	"github.com/twexity/relaybots/internal/domain/bot/consts"
	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
	"github.com/twexity/relaybots/internal/domain/bot/repository/postgres"
	"github.com/twexity/relaybots/internal/domain/bot/state"
	"github.com/twexity/relaybots/internal/domain/bot/usecase/business"
	"github.com/twexity/relaybots/internal/infrastructure/database"
	"github.com/twexity/relaybots/internal/infrastructure/metrics"
)

const testAdminID int64 = 1000

// apiCall is one Bot API request seen by the fake server
type apiCall struct {
	Method  string
	ChatID  string
	Text    string
	Alert   string
	ReplyTo string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{
		Method:  method,
		ChatID:  r.FormValue("chat_id"),
		Text:    r.FormValue("text"),
		Alert:   r.FormValue("show_alert"),
		ReplyTo: r.FormValue("reply_parameters"),
	})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "answerCallbackQuery", "deleteMessage":
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`)
	}
}

func (f *fakeAPI) byMethod(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// flakyUsers fails every write and aggregate while broken is set
type flakyUsers struct {
	deps.UserRepository
	broken atomic.Bool
}

func (f *flakyUsers) fail(op string) error {
	return fmt.Errorf("%w: %s: database is locked", boterrors.ErrPersistence, op)
}

func (f *flakyUsers) Add(ctx context.Context, user *entities.User) error {
	if f.broken.Load() {
		return f.fail("add user")
	}
	return f.UserRepository.Add(ctx, user)
}

func (f *flakyUsers) Stats(ctx context.Context, dayStart time.Time) (entities.Stats, error) {
	if f.broken.Load() {
		return entities.Stats{}, f.fail("stats")
	}
	return f.UserRepository.Stats(ctx, dayStart)
}

type handlersEnv struct {
	handlers *Handlers
	api      *fakeAPI
	users    *flakyUsers
}

func newHandlersEnv(t *testing.T) *handlersEnv {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := tgbot.New("123:test", tgbot.WithServerURL(srv.URL), tgbot.WithSkipGetMe())
	require.NoError(t, err)

	db, err := database.NewDB(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, entities.Models()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	users := &flakyUsers{UserRepository: postgres.NewUserRepository(db)}
	uc := business.NewUseCase(business.Params{
		Users:       users,
		Channels:    postgres.NewChannelRepository(db),
		Memberships: postgres.NewMembershipRepository(db),
		Stats:       postgres.NewStatsRepository(db),
		Sessions:    state.NewMemoryStore(0),
		Telegram:    &config.TelegramConfig{AdminID: testAdminID},
		Broadcast:   &config.BroadcastConfig{RatePerSecond: 1e6},
		Gate:        &config.GateConfig{},
		Metrics:     metrics.GetDefaultMetrics(),
		Logger:      zerolog.Nop(),
	})

	h := NewHandlers(uc, bot, zerolog.Nop())
	uc.SetSender(h)
	uc.SetMemberChecker(h)

	return &handlersEnv{handlers: h, api: api, users: users}
}

func textUpdate(userID int64, messageID int, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   messageID,
		From: &models.User{ID: userID, FirstName: "Tester"},
		Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
		Text: text,
	}}
}

func callbackUpdate(userID int64, data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: userID, FirstName: "Tester"},
		Message: models.MaybeInaccessibleMessage{
			Type:    models.MaybeInaccessibleMessageTypeMessage,
			Message: &models.Message{ID: 42, Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate}},
		},
		Data: data,
	}}
}

func TestHandleMessage_PersistenceFailure(t *testing.T) {
	env := newHandlersEnv(t)
	ctx := context.Background()

	env.users.broken.Store(true)
	env.handlers.HandleMessage(ctx, nil, textUpdate(7, 5, "https://www.instagram.com/p/abc/"))

	sent := env.api.byMethod("sendMessage")
	require.Len(t, sent, 1)
	assert.Equal(t, consts.FailureText, sent[0].Text)
	assert.Equal(t, "7", sent[0].ChatID)

	env.api.reset()
	env.users.broken.Store(false)
	env.handlers.HandleMessage(ctx, nil, textUpdate(7, 6, "not a link"))

	sent = env.api.byMethod("sendMessage")
	require.Len(t, sent, 1, "the next update is still handled")
	assert.Equal(t, consts.InvalidLinkText, sent[0].Text)
	assert.Contains(t, sent[0].ReplyTo, `"message_id":6`)
}

func TestHandleCallback_PersistenceFailure(t *testing.T) {
	env := newHandlersEnv(t)
	ctx := context.Background()

	env.users.broken.Store(true)
	env.handlers.HandleCallback(ctx, nil, callbackUpdate(testAdminID, callback.DataAdminRefresh))

	answers := env.api.byMethod("answerCallbackQuery")
	require.Len(t, answers, 1)
	assert.Equal(t, consts.FailureText, answers[0].Text)
	assert.Equal(t, "true", answers[0].Alert)
	assert.Empty(t, env.api.byMethod("editMessageText"))

	env.api.reset()
	env.users.broken.Store(false)
	env.handlers.HandleCallback(ctx, nil, callbackUpdate(testAdminID, callback.DataAdminRefresh))

	require.Len(t, env.api.byMethod("editMessageText"), 1, "the next update is still handled")
	answers = env.api.byMethod("answerCallbackQuery")
	require.Len(t, answers, 1)
	assert.Empty(t, answers[0].Alert)
}

func TestHandleCallback_AccessDenied(t *testing.T) {
	env := newHandlersEnv(t)

	env.handlers.HandleCallback(context.Background(), nil, callbackUpdate(7, callback.DataAdminStats))

	answers := env.api.byMethod("answerCallbackQuery")
	require.Len(t, answers, 1)
	assert.Equal(t, consts.AccessDeniedText, answers[0].Text)
	assert.Empty(t, answers[0].Alert)
	assert.Empty(t, env.api.byMethod("editMessageText"))
}

func TestHandleAddChannel_ForwardRequired(t *testing.T) {
	env := newHandlersEnv(t)

	update := textUpdate(testAdminID, 3, "/addchannel")
	env.handlers.HandleAddChannel(context.Background(), nil, update)

	sent := env.api.byMethod("sendMessage")
	require.Len(t, sent, 1)
	assert.Equal(t, consts.ForwardRequiredText, sent[0].Text)
	assert.Contains(t, sent[0].ReplyTo, `"message_id":3`)
}

func TestUserReply(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		text     string
		rejected bool
	}{
		{"banned", fmt.Errorf("%w: user 7", boterrors.ErrUserBanned), consts.BannedText, true},
		{"access denied", fmt.Errorf("%w: admin_stats", boterrors.ErrAccessDenied), consts.AccessDeniedText, true},
		{"invalid link", fmt.Errorf("%w: %q", boterrors.ErrInvalidLink, "hello"), consts.InvalidLinkText, true},
		{"forward required", boterrors.ErrNotForwardedChannel, consts.ForwardRequiredText, true},
		{"other validation", boterrors.ErrInvalidAction, consts.InvalidRequestText, true},
		{"persistence", fmt.Errorf("%w: add user", boterrors.ErrPersistence), consts.FailureText, false},
		{"state store", boterrors.ErrStateStore, consts.FailureText, false},
		{"untyped", io.ErrUnexpectedEOF, consts.FailureText, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, rejected := userReply(tt.err)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.rejected, rejected)
		})
	}
}
