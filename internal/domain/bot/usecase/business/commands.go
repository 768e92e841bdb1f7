package business

import (
	"context"
	"fmt"
	"strconv"

	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
	"github.com/twexity/relaybots/internal/domain/bot/state"
)

// HandleStart registers the user and either asks for a language or shows the join prompt
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.CommandRequest) error {
	uc.logger.Info().
		Int64("user_id", req.Sender.UserID).
		Str("username", req.Sender.Username).
		Msg("User started bot")

	if err := uc.registerUser(ctx, req.Sender); err != nil {
		return err
	}

	session, err := uc.session(ctx, req.Sender.UserID)
	if err != nil {
		return err
	}
	session = state.Session{Language: session.Language, Mode: state.ModeLanguageUnset}
	if err := uc.sessions.Set(ctx, req.Sender.UserID, session); err != nil {
		return err
	}

	passed, err := uc.CheckMembership(ctx, req.Sender.UserID)
	if err != nil {
		return err
	}
	if !passed {
		kb, err := uc.JoinKeyboard(ctx)
		if err != nil {
			return err
		}
		lang := uc.language(ctx, req.Sender.UserID)
		return uc.sender.SendText(ctx, req.ChatID, membershipRequiredText(lang), kb)
	}

	return uc.sender.SendText(ctx, req.ChatID, textLanguagePrompt, languageKeyboard())
}

// HandleAdmin shows the admin panel to the administrator
func (uc *UseCase) HandleAdmin(ctx context.Context, req *dto.CommandRequest) error {
	if !uc.isAdmin(req.Sender.UserID) {
		uc.logger.Warn().Int64("user_id", req.Sender.UserID).Msg("Unauthorized /admin")
		return uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, textNotAuthorized, nil)
	}

	stats, err := uc.users.Stats(ctx, startOfDay(uc.now()))
	if err != nil {
		return err
	}

	if err := uc.resetToIdle(ctx, req.Sender.UserID); err != nil {
		return err
	}

	return uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, adminPanelText(stats), adminPanel())
}

// HandleAddChannel stores the channel a replied-to message was forwarded from
func (uc *UseCase) HandleAddChannel(ctx context.Context, req *dto.AddChannelRequest) error {
	if !uc.isAdmin(req.Sender.UserID) {
		return nil
	}

	if req.Channel == nil {
		return boterrors.ErrNotForwardedChannel
	}

	channel := &entities.ForcedChannel{
		ChannelID:       strconv.FormatInt(req.Channel.ID, 10),
		ChannelUsername: req.Channel.Username,
		ChannelTitle:    req.Channel.Title,
	}
	if err := uc.channels.Add(ctx, channel); err != nil {
		return err
	}

	uc.logger.Info().
		Str("channel_id", channel.ChannelID).
		Str("channel_title", channel.ChannelTitle).
		Msg("Forced channel added")

	return uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, fmt.Sprintf(textChannelAdded, channel.ChannelTitle), nil)
}

func (uc *UseCase) registerUser(ctx context.Context, sender dto.Sender) error {
	return uc.users.Add(ctx, &entities.User{
		ID:        sender.UserID,
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
		Language:  entities.DefaultLanguage,
		JoinDate:  uc.now(),
	})
}

func (uc *UseCase) resetToIdle(ctx context.Context, userID int64) error {
	session, err := uc.session(ctx, userID)
	if err != nil {
		return err
	}
	return uc.sessions.Set(ctx, userID, session.Idle())
}
