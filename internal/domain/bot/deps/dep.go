// Package deps contains interface definitions for the bot domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

// TelegramSender defines outbound Telegram operations used by the use case.
// It is implemented by the Telegram delivery handlers and set after construction
// to break the cyclic dependency between UseCase and Handlers.
type TelegramSender interface {
	// SendText sends a text message with an optional inline keyboard
	SendText(ctx context.Context, chatID int64, text string, keyboard entities.Keyboard) error

	// ReplyText replies to a message with an optional inline keyboard
	ReplyText(ctx context.Context, chatID int64, replyTo int, text string, keyboard entities.Keyboard) error

	// EditText replaces the text and keyboard of an existing message
	EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard entities.Keyboard) error

	// DeleteMessage deletes a message from a chat
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// AnswerCallback answers a button press, optionally as an alert
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error

	// SendPhoto sends a photo by URL or file id
	SendPhoto(ctx context.Context, chatID int64, photo, caption string) error

	// SendVideo sends a video by URL or file id
	SendVideo(ctx context.Context, chatID int64, video, caption string) error
}

// ChatMemberChecker queries live channel membership on the messaging platform
type ChatMemberChecker interface {
	MemberStatus(ctx context.Context, channelID string, userID int64) (entities.MemberStatus, error)
}

// MediaResolver resolves an Instagram link to downloadable media
type MediaResolver interface {
	ResolveMedia(ctx context.Context, link string) (*entities.MediaResult, error)
}

// UserRepository defines persistence of bot users
type UserRepository interface {
	// Add inserts the user unless one with the same ID exists
	Add(ctx context.Context, user *entities.User) error

	Get(ctx context.Context, userID int64) (*entities.User, error)

	// List returns all users, most recently joined first
	List(ctx context.Context) ([]entities.User, error)

	// ListPage returns a window of List
	ListPage(ctx context.Context, offset, limit int) ([]entities.User, error)

	Count(ctx context.Context) (int64, error)
	CountJoinedSince(ctx context.Context, since time.Time) (int64, error)
	UpdateLanguage(ctx context.Context, userID int64, lang entities.Language) error
	IncrementDownloads(ctx context.Context, userID int64, at time.Time) error
	SetBan(ctx context.Context, userID int64, banned bool, reason string) error

	// Stats aggregates totals; ActiveToday counts downloads since dayStart
	Stats(ctx context.Context, dayStart time.Time) (entities.Stats, error)
}

// ChannelRepository defines persistence of forced channels
type ChannelRepository interface {
	// Add inserts or replaces the channel
	Add(ctx context.Context, channel *entities.ForcedChannel) error
	Remove(ctx context.Context, channelID string) error
	List(ctx context.Context) ([]entities.ForcedChannel, error)
}

// MembershipRepository defines persistence of membership confirmations
type MembershipRepository interface {
	// Save inserts or refreshes the confirmation
	Save(ctx context.Context, userID int64, channelID string, at time.Time) error

	// Has reports a confirmation not older than notBefore (zero time disables the bound)
	Has(ctx context.Context, userID int64, channelID string, notBefore time.Time) (bool, error)
}

// StatsRepository defines persistence of daily statistics
type StatsRepository interface {
	Upsert(ctx context.Context, stat *entities.DailyStat) error
	Recent(ctx context.Context, days int) ([]entities.DailyStat, error)
}
