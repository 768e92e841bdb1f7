// Package state keeps per-user conversation sessions behind a single store boundary
package state

import (
	"context"
	"time"

	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

// Mode is where a user is in the conversation
type Mode string

const (
	ModeIdle              Mode = "idle"
	ModeLanguageUnset     Mode = "language_unset"
	ModeAwaitingBroadcast Mode = "awaiting_broadcast"
	ModeBrowsingUsers     Mode = "browsing_users"
)

// Session is the conversation state of one user. Broadcast is set only in
// ModeAwaitingBroadcast, Page only in ModeBrowsingUsers.
type Session struct {
	Language  entities.Language      `json:"language,omitempty"`
	Mode      Mode                   `json:"mode"`
	Broadcast entities.BroadcastKind `json:"broadcast,omitempty"`
	Page      int                    `json:"page,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Idle returns the session moved to ModeIdle, keeping the language
func (s Session) Idle() Session {
	return Session{Language: s.Language, Mode: ModeIdle}
}

// AwaitingBroadcast returns the session waiting for a broadcast payload of kind
func (s Session) AwaitingBroadcast(kind entities.BroadcastKind) Session {
	return Session{Language: s.Language, Mode: ModeAwaitingBroadcast, Broadcast: kind}
}

// BrowsingUsers returns the session showing users page
func (s Session) BrowsingUsers(page int) Session {
	return Session{Language: s.Language, Mode: ModeBrowsingUsers, Page: page}
}

// WithLanguage returns the session with the language set and moved to ModeIdle
func (s Session) WithLanguage(lang entities.Language) Session {
	return Session{Language: lang, Mode: ModeIdle}
}

// Awaiting reports whether the session waits for a broadcast payload
func (s Session) Awaiting() (entities.BroadcastKind, bool) {
	if s.Mode != ModeAwaitingBroadcast {
		return "", false
	}
	return s.Broadcast, true
}

// Store is the only owner of conversation sessions. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the session of the user; ok is false when none exists
	Get(ctx context.Context, userID int64) (session Session, ok bool, err error)

	// Set replaces the session of the user
	Set(ctx context.Context, userID int64, session Session) error

	// Reset forgets the session of the user
	Reset(ctx context.Context, userID int64) error
}
