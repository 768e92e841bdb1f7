package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/twexity/relaybots/internal/domain/bot/callback"
	"github.com/twexity/relaybots/internal/domain/bot/consts"
	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
	"github.com/twexity/relaybots/internal/domain/bot/state"
)

// answer is the callback query answer sent once a button press is handled
type answer struct {
	text  string
	alert bool
}

// HandleCallback dispatches a button press. The membership gate intercepts
// every action except the membership check itself; admin actions from anyone
// else are rejected without touching state.
func (uc *UseCase) HandleCallback(ctx context.Context, req *dto.CallbackRequest) error {
	action := callback.Parse(req.Data)
	userID := req.Sender.UserID

	uc.logger.Debug().
		Int64("user_id", userID).
		Str("data", req.Data).
		Msg("Callback received")

	if action.Kind != callback.KindCheckMembership {
		passed, err := uc.CheckMembership(ctx, userID)
		if err != nil {
			return err
		}
		if !passed {
			if err := uc.showJoinPrompt(ctx, req); err != nil {
				return err
			}
			return uc.sender.AnswerCallback(ctx, req.CallbackID, "", false)
		}
	}

	if action.AdminOnly() && !uc.isAdmin(userID) {
		uc.logger.Warn().
			Int64("user_id", userID).
			Str("data", req.Data).
			Msg("Non-admin pressed admin action")
		return fmt.Errorf("%w: %s", boterrors.ErrAccessDenied, req.Data)
	}

	ans, err := uc.dispatch(ctx, req, action)
	if err != nil {
		return err
	}

	return uc.sender.AnswerCallback(ctx, req.CallbackID, ans.text, ans.alert)
}

func (uc *UseCase) dispatch(ctx context.Context, req *dto.CallbackRequest, action callback.Action) (answer, error) {
	switch action.Kind {
	case callback.KindClose:
		name := req.Sender.FirstName
		return answer{}, uc.sender.EditText(ctx, req.ChatID, req.MessageID, fmt.Sprintf(textClosedBy, name), nil)
	case callback.KindLanguage:
		return answer{}, uc.setLanguage(ctx, req, action.Language)
	case callback.KindCheckMembership:
		return uc.checkMembership(ctx, req)
	case callback.KindDownload:
		lang := uc.language(ctx, req.Sender.UserID)
		return answer{}, uc.sender.EditText(ctx, req.ChatID, req.MessageID, downloadReadyText(lang), nil)
	case callback.KindHelp:
		return answer{}, uc.showInfo(ctx, req, helpText)
	case callback.KindAbout:
		return answer{}, uc.showInfo(ctx, req, func(entities.Language) string { return textAbout })
	case callback.KindRules:
		return answer{}, uc.showInfo(ctx, req, rulesText)
	case callback.KindAdminStats:
		return answer{}, uc.showDetailedStats(ctx, req)
	case callback.KindAdminUsers:
		return answer{}, uc.showUsersPage(ctx, req, 0)
	case callback.KindUsersPage:
		return answer{}, uc.showUsersPage(ctx, req, action.Page)
	case callback.KindAdminBroadcast:
		return answer{}, uc.sender.EditText(ctx, req.ChatID, req.MessageID, textBroadcastMenu, broadcastPanel())
	case callback.KindAdminChannels:
		return answer{}, uc.showChannels(ctx, req)
	case callback.KindAdminRefresh:
		return answer{text: textStatsRefreshed}, uc.showAdminPanel(ctx, req)
	case callback.KindAdminBack:
		return answer{}, uc.showAdminPanel(ctx, req)
	case callback.KindAdminClose:
		if err := uc.resetToIdle(ctx, req.Sender.UserID); err != nil {
			return answer{}, err
		}
		return answer{}, uc.sender.DeleteMessage(ctx, req.ChatID, req.MessageID)
	case callback.KindUserDetail:
		return uc.showUserDetail(ctx, req, action.UserID, textUserDetailsLoaded)
	case callback.KindUserBan:
		return uc.setBan(ctx, req, action.UserID, true)
	case callback.KindUserUnban:
		return uc.setBan(ctx, req, action.UserID, false)
	case callback.KindChannelRemove:
		return uc.removeChannel(ctx, req, action.ChannelID)
	case callback.KindBroadcast:
		return answer{}, uc.awaitBroadcast(ctx, req, action.Broadcast)
	case callback.KindUnknown:
		uc.logger.Warn().Str("data", req.Data).Msg("Unknown callback data")
		return answer{text: textUnknownAction}, nil
	}

	return answer{}, fmt.Errorf("%w: kind %d", boterrors.ErrInvalidAction, action.Kind)
}

func (uc *UseCase) showJoinPrompt(ctx context.Context, req *dto.CallbackRequest) error {
	kb, err := uc.JoinKeyboard(ctx)
	if err != nil {
		return err
	}
	lang := uc.language(ctx, req.Sender.UserID)
	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, membershipRequiredText(lang), kb)
}

func (uc *UseCase) setLanguage(ctx context.Context, req *dto.CallbackRequest, lang entities.Language) error {
	userID := req.Sender.UserID

	if err := uc.users.UpdateLanguage(ctx, userID, lang); err != nil {
		return err
	}

	session, err := uc.session(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.sessions.Set(ctx, userID, session.WithLanguage(lang)); err != nil {
		return err
	}

	uc.logger.Info().Int64("user_id", userID).Str("language", string(lang)).Msg("Language set")

	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, languageSetText(lang), mainMenu(lang, uc.supportURL))
}

func (uc *UseCase) checkMembership(ctx context.Context, req *dto.CallbackRequest) (answer, error) {
	joined, err := uc.VerifyMembership(ctx, req.Sender.UserID)
	if err != nil {
		return answer{}, err
	}
	if !joined {
		return answer{text: textNotJoined, alert: true}, nil
	}

	lang := uc.language(ctx, req.Sender.UserID)
	return answer{}, uc.sender.EditText(ctx, req.ChatID, req.MessageID, membershipVerifiedText(lang), mainMenu(lang, uc.supportURL))
}

func (uc *UseCase) showInfo(ctx context.Context, req *dto.CallbackRequest, text func(entities.Language) string) error {
	lang := uc.language(ctx, req.Sender.UserID)
	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, text(lang), mainMenu(lang, uc.supportURL))
}

func (uc *UseCase) showAdminPanel(ctx context.Context, req *dto.CallbackRequest) error {
	stats, err := uc.users.Stats(ctx, startOfDay(uc.now()))
	if err != nil {
		return err
	}
	if err := uc.resetToIdle(ctx, req.Sender.UserID); err != nil {
		return err
	}
	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, adminPanelText(stats), adminPanel())
}

func (uc *UseCase) showDetailedStats(ctx context.Context, req *dto.CallbackRequest) error {
	now := uc.now()

	stats, err := uc.users.Stats(ctx, startOfDay(now))
	if err != nil {
		return err
	}

	daily, err := uc.stats.Recent(ctx, consts.RecentStatsDays)
	if err != nil {
		return err
	}

	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, detailedStatsText(stats, daily, now), adminPanel())
}

func (uc *UseCase) showUsersPage(ctx context.Context, req *dto.CallbackRequest, page int) error {
	total, err := uc.users.Count(ctx)
	if err != nil {
		return err
	}

	users, err := uc.users.ListPage(ctx, page*consts.UsersPageSize, consts.UsersPageSize)
	if err != nil {
		return err
	}

	session, err := uc.session(ctx, req.Sender.UserID)
	if err != nil {
		return err
	}
	if err := uc.sessions.Set(ctx, req.Sender.UserID, session.BrowsingUsers(page)); err != nil {
		return err
	}

	kb := usersKeyboard(users, page, total, consts.UsersPageSize)
	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, usersPageText(total), kb)
}

func (uc *UseCase) showUserDetail(ctx context.Context, req *dto.CallbackRequest, userID int64, notice string) (answer, error) {
	user, err := uc.users.Get(ctx, userID)
	if errors.Is(err, boterrors.ErrUserNotFound) {
		return answer{text: textUserMissing}, nil
	}
	if err != nil {
		return answer{}, err
	}

	session, err := uc.session(ctx, req.Sender.UserID)
	if err != nil {
		return answer{}, err
	}

	page := 0
	if session.Mode == state.ModeBrowsingUsers {
		page = session.Page
	}

	kb := userDetailKeyboard(user, page)
	return answer{text: notice}, uc.sender.EditText(ctx, req.ChatID, req.MessageID, userDetailText(user), kb)
}

func (uc *UseCase) setBan(ctx context.Context, req *dto.CallbackRequest, userID int64, banned bool) (answer, error) {
	if uc.isAdmin(userID) {
		return answer{text: textCannotBanAdmin}, nil
	}

	reason := ""
	if banned {
		reason = fmt.Sprintf("banned by admin %d", req.Sender.UserID)
	}

	err := uc.users.SetBan(ctx, userID, banned, reason)
	if errors.Is(err, boterrors.ErrUserNotFound) {
		return answer{text: textUserMissing}, nil
	}
	if err != nil {
		return answer{}, err
	}

	uc.logger.Info().
		Int64("user_id", userID).
		Bool("banned", banned).
		Msg("User ban state changed")

	if banned {
		if err := uc.sessions.Reset(ctx, userID); err != nil {
			return answer{}, err
		}
	}

	notice := textUserUnbanned
	if banned {
		notice = textUserBanned
	}
	return uc.showUserDetail(ctx, req, userID, notice)
}

func (uc *UseCase) showChannels(ctx context.Context, req *dto.CallbackRequest) error {
	channels, err := uc.channels.List(ctx)
	if err != nil {
		return err
	}
	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, channelsText(channels), channelsKeyboard(channels))
}

func (uc *UseCase) removeChannel(ctx context.Context, req *dto.CallbackRequest, channelID string) (answer, error) {
	err := uc.channels.Remove(ctx, channelID)
	if errors.Is(err, boterrors.ErrChannelNotFound) {
		return answer{text: textChannelMissing}, uc.showChannels(ctx, req)
	}
	if err != nil {
		return answer{}, err
	}

	uc.logger.Info().Str("channel_id", channelID).Msg("Forced channel removed")

	return answer{text: textChannelRemoved}, uc.showChannels(ctx, req)
}

func (uc *UseCase) awaitBroadcast(ctx context.Context, req *dto.CallbackRequest, kind entities.BroadcastKind) error {
	session, err := uc.session(ctx, req.Sender.UserID)
	if err != nil {
		return err
	}
	if err := uc.sessions.Set(ctx, req.Sender.UserID, session.AwaitingBroadcast(kind)); err != nil {
		return err
	}

	uc.logger.Info().Str("kind", string(kind)).Msg("Awaiting broadcast payload")

	return uc.sender.EditText(ctx, req.ChatID, req.MessageID, broadcastPromptText(kind), nil)
}
