// Package business contains business logic for the downloader bot
package business

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	"github.com/twexity/relaybots/internal/domain/bot/state"
	"github.com/twexity/relaybots/internal/infrastructure/metrics"
)

// Params holds UseCase dependencies
type Params struct {
	fx.In

	Users       deps.UserRepository
	Channels    deps.ChannelRepository
	Memberships deps.MembershipRepository
	Stats       deps.StatsRepository
	Media       deps.MediaResolver
	Sessions    state.Store
	Telegram    *config.TelegramConfig
	Broadcast   *config.BroadcastConfig
	Gate        *config.GateConfig
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// UseCase contains business logic for the downloader bot
type UseCase struct {
	users       deps.UserRepository
	channels    deps.ChannelRepository
	memberships deps.MembershipRepository
	stats       deps.StatsRepository
	media       deps.MediaResolver
	sessions    state.Store
	sender      deps.TelegramSender
	members     deps.ChatMemberChecker

	adminID       int64
	supportURL    string
	membershipTTL time.Duration
	limiter       *rate.Limiter
	validate      *validator.Validate
	metrics       *metrics.Metrics
	now           func() time.Time
	logger        zerolog.Logger
}

// NewUseCase creates a new UseCase instance
// Note: sender and member checker are not passed here to break cyclic dependency
// Use SetSender and SetMemberChecker after creating TelegramHandlers
func NewUseCase(p Params) *UseCase {
	return &UseCase{
		users:         p.Users,
		channels:      p.Channels,
		memberships:   p.Memberships,
		stats:         p.Stats,
		media:         p.Media,
		sessions:      p.Sessions,
		adminID:       p.Telegram.AdminID,
		supportURL:    p.Telegram.SupportURL,
		membershipTTL: p.Gate.MembershipTTL,
		limiter:       rate.NewLimiter(rate.Limit(p.Broadcast.RatePerSecond), 1),
		validate:      validator.New(),
		metrics:       p.Metrics,
		now:           time.Now,
		logger:        p.Logger.With().Str("component", "bot_usecase").Logger(),
	}
}

// SetSender sets the TelegramSender after construction
func (uc *UseCase) SetSender(sender deps.TelegramSender) {
	uc.sender = sender
}

// SetMemberChecker sets the ChatMemberChecker after construction
func (uc *UseCase) SetMemberChecker(checker deps.ChatMemberChecker) {
	uc.members = checker
}

func (uc *UseCase) isAdmin(userID int64) bool {
	return userID == uc.adminID
}

// session returns the stored session, or a fresh idle one
func (uc *UseCase) session(ctx context.Context, userID int64) (state.Session, error) {
	s, ok, err := uc.sessions.Get(ctx, userID)
	if err != nil {
		return state.Session{}, err
	}
	if !ok {
		return state.Session{Mode: state.ModeIdle}, nil
	}
	return s, nil
}

// language resolves the interface language: session first, then the stored
// user preference, then the default
func (uc *UseCase) language(ctx context.Context, userID int64) entities.Language {
	if s, ok, err := uc.sessions.Get(ctx, userID); err == nil && ok && s.Language.Valid() {
		return s.Language
	}

	if user, err := uc.users.Get(ctx, userID); err == nil {
		return user.Language.OrDefault()
	}

	return entities.DefaultLanguage
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
