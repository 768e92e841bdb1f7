package business

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	"github.com/twexity/relaybots/internal/domain/bot/repository/postgres"
	"github.com/twexity/relaybots/internal/domain/bot/state"
	"github.com/twexity/relaybots/internal/infrastructure/database"
	"github.com/twexity/relaybots/internal/infrastructure/metrics"
)

const adminID int64 = 1000

var errUnreachable = errors.New("forbidden: bot was blocked by the user")

type call struct {
	Method    string
	ChatID    int64
	MessageID int
	Text      string
	Media     string
	Keyboard  entities.Keyboard
	Alert     bool
}

type fakeSender struct {
	mu        sync.Mutex
	calls     []call
	failChats map[int64]bool
}

func (f *fakeSender) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeSender) fails(chatID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failChats[chatID]
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string, kb entities.Keyboard) error {
	f.record(call{Method: "SendText", ChatID: chatID, Text: text, Keyboard: kb})
	if f.fails(chatID) {
		return errUnreachable
	}
	return nil
}

func (f *fakeSender) ReplyText(_ context.Context, chatID int64, replyTo int, text string, kb entities.Keyboard) error {
	f.record(call{Method: "ReplyText", ChatID: chatID, MessageID: replyTo, Text: text, Keyboard: kb})
	return nil
}

func (f *fakeSender) EditText(_ context.Context, chatID int64, messageID int, text string, kb entities.Keyboard) error {
	f.record(call{Method: "EditText", ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb})
	return nil
}

func (f *fakeSender) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	f.record(call{Method: "DeleteMessage", ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *fakeSender) AnswerCallback(_ context.Context, _ string, text string, alert bool) error {
	f.record(call{Method: "AnswerCallback", Text: text, Alert: alert})
	return nil
}

func (f *fakeSender) SendPhoto(_ context.Context, chatID int64, photo, caption string) error {
	f.record(call{Method: "SendPhoto", ChatID: chatID, Media: photo, Text: caption})
	if f.fails(chatID) {
		return errUnreachable
	}
	return nil
}

func (f *fakeSender) SendVideo(_ context.Context, chatID int64, video, caption string) error {
	f.record(call{Method: "SendVideo", ChatID: chatID, Media: video, Text: caption})
	if f.fails(chatID) {
		return errUnreachable
	}
	return nil
}

func (f *fakeSender) byMethod(method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []call
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSender) last(method string) call {
	calls := f.byMethod(method)
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

type fakeMembers struct {
	statuses map[string]entities.MemberStatus
	errs     map[string]error
}

func (f *fakeMembers) MemberStatus(_ context.Context, channelID string, _ int64) (entities.MemberStatus, error) {
	if err := f.errs[channelID]; err != nil {
		return "", err
	}
	if s, ok := f.statuses[channelID]; ok {
		return s, nil
	}
	return entities.MemberStatusLeft, nil
}

type fakeResolver struct {
	result *entities.MediaResult
	err    error
	links  []string
}

func (f *fakeResolver) ResolveMedia(_ context.Context, link string) (*entities.MediaResult, error) {
	f.links = append(f.links, link)
	return f.result, f.err
}

type testEnv struct {
	uc          *UseCase
	sender      *fakeSender
	members     *fakeMembers
	resolver    *fakeResolver
	users       deps.UserRepository
	channels    deps.ChannelRepository
	memberships deps.MembershipRepository
	stats       deps.StatsRepository
	sessions    *state.MemoryStore
	now         time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDB(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, entities.Models()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		sender:      &fakeSender{failChats: map[int64]bool{}},
		members:     &fakeMembers{statuses: map[string]entities.MemberStatus{}, errs: map[string]error{}},
		resolver:    &fakeResolver{},
		users:       postgres.NewUserRepository(db),
		channels:    postgres.NewChannelRepository(db),
		memberships: postgres.NewMembershipRepository(db),
		stats:       postgres.NewStatsRepository(db),
		sessions:    state.NewMemoryStore(0),
		now:         time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	env.uc = NewUseCase(Params{
		Users:       env.users,
		Channels:    env.channels,
		Memberships: env.memberships,
		Stats:       env.stats,
		Media:       env.resolver,
		Sessions:    env.sessions,
		Telegram:    &config.TelegramConfig{AdminID: adminID, SupportURL: "https://t.me/support"},
		Broadcast:   &config.BroadcastConfig{RatePerSecond: 1e6},
		Gate:        &config.GateConfig{},
		Metrics:     metrics.GetDefaultMetrics(),
		Logger:      zerolog.Nop(),
	})
	env.uc.now = func() time.Time { return env.now }
	env.uc.SetSender(env.sender)
	env.uc.SetMemberChecker(env.members)

	return env
}

func (e *testEnv) addUser(t *testing.T, id int64, joined time.Time) {
	t.Helper()
	require.NoError(t, e.users.Add(context.Background(), &entities.User{
		ID:        id,
		Username:  fmt.Sprintf("u%d", id),
		FirstName: fmt.Sprintf("User%d", id),
		JoinDate:  joined,
	}))
}

func (e *testEnv) addChannel(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.channels.Add(context.Background(), &entities.ForcedChannel{
		ChannelID:       id,
		ChannelUsername: "ch" + id,
		ChannelTitle:    "Channel " + id,
	}))
}

func (e *testEnv) press(t *testing.T, userID int64, data string) {
	t.Helper()
	require.NoError(t, e.uc.HandleCallback(context.Background(), &dto.CallbackRequest{
		CallbackID: "cb",
		Sender:     dto.Sender{UserID: userID, FirstName: "Tester"},
		ChatID:     userID,
		MessageID:  42,
		Data:       data,
	}))
}

func (e *testEnv) send(t *testing.T, msg dto.MessageRequest) {
	t.Helper()
	if msg.ChatID == 0 {
		msg.ChatID = msg.Sender.UserID
	}
	require.NoError(t, e.uc.HandleMessage(context.Background(), &msg))
}

func (e *testEnv) session(t *testing.T, userID int64) state.Session {
	t.Helper()
	s, _, err := e.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return s
}
