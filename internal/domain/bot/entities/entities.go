// Package entities contains domain entities of the downloader bot
package entities

import "time"

// Language is a user's interface language
type Language string

const (
	LanguageFA Language = "fa"
	LanguageEN Language = "en"
)

// DefaultLanguage is used until a user picks one
const DefaultLanguage = LanguageFA

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == LanguageFA || l == LanguageEN
}

// OrDefault returns l, or DefaultLanguage when l is unset or unknown
func (l Language) OrDefault() Language {
	if l.Valid() {
		return l
	}
	return DefaultLanguage
}

// User represents a Telegram user known to the bot
type User struct {
	ID             int64      `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Username       string     `gorm:"column:username"`
	FirstName      string     `gorm:"column:first_name"`
	LastName       string     `gorm:"column:last_name"`
	Language       Language   `gorm:"column:language;type:varchar(8);default:fa"`
	JoinDate       time.Time  `gorm:"column:join_date;autoCreateTime;index"`
	DownloadsCount int64      `gorm:"column:downloads_count;default:0"`
	LastDownload   *time.Time `gorm:"column:last_download"`
	IsBanned       bool       `gorm:"column:is_banned;default:false"`
	BanReason      string     `gorm:"column:ban_reason"`
}

func (User) TableName() string {
	return "users"
}

// ForcedChannel is a channel users must join before using the bot
type ForcedChannel struct {
	ChannelID       string `gorm:"column:channel_id;primaryKey"`
	ChannelUsername string `gorm:"column:channel_username"`
	ChannelTitle    string `gorm:"column:channel_title"`
}

func (ForcedChannel) TableName() string {
	return "forced_channels"
}

// Link returns the public join link of the channel
func (c ForcedChannel) Link() string {
	if c.ChannelUsername != "" {
		return "https://t.me/" + c.ChannelUsername
	}
	return "https://t.me/c/" + c.ChannelID
}

// ChannelMembership is a cached confirmation that a user joined a channel.
// It is not revalidated against the platform, so it can go stale.
type ChannelMembership struct {
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	ChannelID string    `gorm:"column:channel_id;primaryKey"`
	JoinedAt  time.Time `gorm:"column:joined_at"`
}

func (ChannelMembership) TableName() string {
	return "channel_memberships"
}

// DailyStat is one aggregated statistics row per day
type DailyStat struct {
	Date           string `gorm:"column:date;primaryKey"`
	TotalUsers     int64  `gorm:"column:total_users;default:0"`
	TotalDownloads int64  `gorm:"column:total_downloads;default:0"`
	NewUsers       int64  `gorm:"column:new_users;default:0"`
}

func (DailyStat) TableName() string {
	return "statistics"
}

// Stats is the live aggregate shown in the admin panel
type Stats struct {
	TotalUsers     int64
	ActiveToday    int64
	TotalDownloads int64
}

// AveragePerUser returns downloads per user, zero when there are no users
func (s Stats) AveragePerUser() float64 {
	if s.TotalUsers == 0 {
		return 0
	}
	return float64(s.TotalDownloads) / float64(s.TotalUsers)
}

// MediaResult is the first item resolved from an Instagram link
type MediaResult struct {
	Caption    string
	IsVideo    bool
	VideoURL   string
	DisplayURL string
}

// Models lists every persisted entity for schema migration
func Models() []any {
	return []any{
		&User{},
		&ForcedChannel{},
		&ChannelMembership{},
		&DailyStat{},
	}
}

// BroadcastKind is the content type of an admin broadcast
type BroadcastKind string

const (
	BroadcastText  BroadcastKind = "text"
	BroadcastPhoto BroadcastKind = "photo"
	BroadcastVideo BroadcastKind = "video"
)

// Valid reports whether k is a known broadcast kind
func (k BroadcastKind) Valid() bool {
	switch k {
	case BroadcastText, BroadcastPhoto, BroadcastVideo:
		return true
	}
	return false
}

// MemberStatus is a chat member status reported by Telegram
type MemberStatus string

const (
	MemberStatusCreator       MemberStatus = "creator"
	MemberStatusAdministrator MemberStatus = "administrator"
	MemberStatusMember        MemberStatus = "member"
	MemberStatusRestricted    MemberStatus = "restricted"
	MemberStatusLeft          MemberStatus = "left"
	MemberStatusKicked        MemberStatus = "kicked"
)

// Joined reports whether the status counts as channel membership
func (s MemberStatus) Joined() bool {
	switch s {
	case MemberStatusCreator, MemberStatusAdministrator, MemberStatusMember:
		return true
	}
	return false
}
