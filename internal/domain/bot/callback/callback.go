// Package callback parses inline keyboard callback data into a closed set of actions
package callback

import (
	"math"
	"strconv"
	"strings"

	"github.com/twexity/relaybots/internal/domain/bot/consts"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

// maxPage keeps the page offset from overflowing
const maxPage = math.MaxInt / consts.UsersPageSize

// Kind is the action a button press asks for
type Kind int

const (
	KindUnknown Kind = iota
	KindClose
	KindLanguage
	KindCheckMembership
	KindDownload
	KindHelp
	KindAbout
	KindRules
	KindAdminStats
	KindAdminUsers
	KindAdminBroadcast
	KindAdminChannels
	KindAdminRefresh
	KindAdminBack
	KindAdminClose
	KindUsersPage
	KindUserDetail
	KindUserBan
	KindUserUnban
	KindChannelRemove
	KindBroadcast
)

// Static callback data
const (
	DataClose           = "close"
	DataLangFA          = "lang_fa"
	DataLangEN          = "lang_en"
	DataCheckMembership = "check_membership"
	DataDownload        = "download"
	DataHelp            = "help"
	DataAbout           = "about"
	DataRules           = "rules"
	DataAdminStats      = "admin_stats"
	DataAdminUsers      = "admin_users"
	DataAdminBroadcast  = "admin_broadcast"
	DataAdminChannels   = "admin_channels"
	DataAdminRefresh    = "admin_refresh"
	DataAdminBack       = "admin_back"
	DataAdminClose      = "admin_close"
)

const (
	prefixUsersPage     = "users_page_"
	prefixUserDetail    = "user_detail_"
	prefixUserBan       = "user_ban_"
	prefixUserUnban     = "user_unban_"
	prefixChannelRemove = "channel_remove_"
	prefixBroadcast     = "broadcast_"
)

// Action is parsed callback data. Only the fields relevant to Kind are set.
type Action struct {
	Kind      Kind
	Language  entities.Language
	Page      int
	UserID    int64
	ChannelID string
	Broadcast entities.BroadcastKind
}

var static = map[string]Action{
	DataClose:           {Kind: KindClose},
	DataLangFA:          {Kind: KindLanguage, Language: entities.LanguageFA},
	DataLangEN:          {Kind: KindLanguage, Language: entities.LanguageEN},
	DataCheckMembership: {Kind: KindCheckMembership},
	DataDownload:        {Kind: KindDownload},
	DataHelp:            {Kind: KindHelp},
	DataAbout:           {Kind: KindAbout},
	DataRules:           {Kind: KindRules},
	DataAdminStats:      {Kind: KindAdminStats},
	DataAdminUsers:      {Kind: KindAdminUsers},
	DataAdminBroadcast:  {Kind: KindAdminBroadcast},
	DataAdminChannels:   {Kind: KindAdminChannels},
	DataAdminRefresh:    {Kind: KindAdminRefresh},
	DataAdminBack:       {Kind: KindAdminBack},
	DataAdminClose:      {Kind: KindAdminClose},
}

// Parse converts raw callback data into an Action. Malformed or unrecognized
// data yields KindUnknown.
func Parse(data string) Action {
	if a, ok := static[data]; ok {
		return a
	}

	switch {
	case strings.HasPrefix(data, prefixUsersPage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, prefixUsersPage))
		if err != nil || page < 0 || page > maxPage {
			return Action{Kind: KindUnknown}
		}
		return Action{Kind: KindUsersPage, Page: page}

	case strings.HasPrefix(data, prefixUserDetail):
		return parseUser(KindUserDetail, strings.TrimPrefix(data, prefixUserDetail))

	case strings.HasPrefix(data, prefixUserBan):
		return parseUser(KindUserBan, strings.TrimPrefix(data, prefixUserBan))

	case strings.HasPrefix(data, prefixUserUnban):
		return parseUser(KindUserUnban, strings.TrimPrefix(data, prefixUserUnban))

	case strings.HasPrefix(data, prefixChannelRemove):
		id := strings.TrimPrefix(data, prefixChannelRemove)
		if id == "" {
			return Action{Kind: KindUnknown}
		}
		return Action{Kind: KindChannelRemove, ChannelID: id}

	case strings.HasPrefix(data, prefixBroadcast):
		kind := entities.BroadcastKind(strings.TrimPrefix(data, prefixBroadcast))
		if !kind.Valid() {
			return Action{Kind: KindUnknown}
		}
		return Action{Kind: KindBroadcast, Broadcast: kind}
	}

	return Action{Kind: KindUnknown}
}

func parseUser(kind Kind, raw string) Action {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Action{Kind: KindUnknown}
	}
	return Action{Kind: kind, UserID: id}
}

// AdminOnly reports whether the action is restricted to the administrator
func (a Action) AdminOnly() bool {
	switch a.Kind {
	case KindAdminStats, KindAdminUsers, KindAdminBroadcast, KindAdminChannels,
		KindAdminRefresh, KindAdminBack, KindAdminClose,
		KindUsersPage, KindUserDetail, KindUserBan, KindUserUnban,
		KindChannelRemove, KindBroadcast:
		return true
	}
	return false
}

// UsersPage builds callback data for a users page
func UsersPage(page int) string {
	return prefixUsersPage + strconv.Itoa(page)
}

// UserDetail builds callback data for a user detail view
func UserDetail(userID int64) string {
	return prefixUserDetail + strconv.FormatInt(userID, 10)
}

// UserBan builds callback data for banning a user
func UserBan(userID int64) string {
	return prefixUserBan + strconv.FormatInt(userID, 10)
}

// UserUnban builds callback data for unbanning a user
func UserUnban(userID int64) string {
	return prefixUserUnban + strconv.FormatInt(userID, 10)
}

// ChannelRemove builds callback data for removing a forced channel
func ChannelRemove(channelID string) string {
	return prefixChannelRemove + channelID
}

// Broadcast builds callback data for starting a broadcast of kind
func Broadcast(kind entities.BroadcastKind) string {
	return prefixBroadcast + string(kind)
}
