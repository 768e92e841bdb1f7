package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twexity/relaybots/internal/domain/bot/consts"
	"github.com/twexity/relaybots/internal/domain/bot/dto"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
	"github.com/twexity/relaybots/internal/domain/bot/state"
)

// HandleMessage handles any non-command message: a pending broadcast payload
// from the administrator, or an Instagram link from anyone who passes the gate
func (uc *UseCase) HandleMessage(ctx context.Context, req *dto.MessageRequest) error {
	userID := req.Sender.UserID

	if err := uc.registerUser(ctx, req.Sender); err != nil {
		return err
	}

	passed, err := uc.CheckMembership(ctx, userID)
	if err != nil {
		return err
	}
	if !passed {
		kb, err := uc.JoinKeyboard(ctx)
		if err != nil {
			return err
		}
		lang := uc.language(ctx, userID)
		return uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, membershipRequiredText(lang), kb)
	}

	if uc.isAdmin(userID) {
		session, err := uc.session(ctx, userID)
		if err != nil {
			return err
		}
		if kind, ok := session.Awaiting(); ok {
			if req.Kind() != kind {
				uc.logger.Debug().
					Str("expected", string(kind)).
					Str("got", string(req.Kind())).
					Msg("Ignoring message of other type while awaiting broadcast")
				return nil
			}
			return uc.broadcast(ctx, req, kind, session)
		}
	}

	return uc.download(ctx, req)
}

func (uc *UseCase) download(ctx context.Context, req *dto.MessageRequest) error {
	userID := req.Sender.UserID
	link := strings.TrimSpace(req.Text)

	if err := uc.validate.Struct(dto.MediaLink{URL: link}); err != nil {
		uc.metrics.RecordDownload("invalid_link")
		return fmt.Errorf("%w: %q", boterrors.ErrInvalidLink, link)
	}

	user, err := uc.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsBanned {
		uc.metrics.RecordDownload("banned")
		return fmt.Errorf("%w: user %d", boterrors.ErrUserBanned, userID)
	}

	if err := uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, textDownloading, nil); err != nil {
		return err
	}

	if err := uc.users.IncrementDownloads(ctx, userID, uc.now()); err != nil {
		return err
	}

	media, err := uc.media.ResolveMedia(ctx, link)
	if err != nil {
		uc.logger.Warn().Err(err).
			Int64("user_id", userID).
			Str("link", link).
			Msg("Failed to resolve media")
		uc.metrics.RecordDownload("fetch_error")
		return uc.sender.SendText(ctx, req.ChatID, textFetchError, nil)
	}

	caption := withSuffix(media.Caption)

	switch {
	case media.IsVideo && media.VideoURL != "":
		uc.metrics.RecordDownload("video")
		return uc.sender.SendVideo(ctx, req.ChatID, media.VideoURL, caption)
	case media.DisplayURL != "":
		uc.metrics.RecordDownload("photo")
		return uc.sender.SendPhoto(ctx, req.ChatID, media.DisplayURL, caption)
	default:
		uc.metrics.RecordDownload("no_content")
		return uc.sender.SendText(ctx, req.ChatID, textNoContent, nil)
	}
}

// broadcast fans the payload out to every known user. Each delivery failure
// is counted and never stops the loop.
func (uc *UseCase) broadcast(ctx context.Context, req *dto.MessageRequest, kind entities.BroadcastKind, session state.Session) error {
	users, err := uc.users.List(ctx)
	if err != nil {
		return err
	}

	uc.logger.Info().
		Str("kind", string(kind)).
		Int("count", len(users)).
		Msg("Starting broadcast")

	if err := uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, fmt.Sprintf(textBroadcastStarting, len(users)), nil); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to announce broadcast")
	}

	result := uc.fanOut(ctx, users, req, kind)

	if err := uc.sessions.Set(ctx, req.Sender.UserID, session.Idle()); err != nil {
		return err
	}

	uc.metrics.RecordBroadcast(result.Success, result.Failed)
	uc.logger.Info().
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("Broadcast completed")

	return uc.sender.ReplyText(ctx, req.ChatID, req.MessageID, fmt.Sprintf(textBroadcastCompleted, result.Success, result.Failed), nil)
}

// fanOut attempts every user. Deadlines on ctx do not apply to the fan-out;
// only cancellation stops it early, and the rest then count as failed.
func (uc *UseCase) fanOut(ctx context.Context, users []entities.User, req *dto.MessageRequest, kind entities.BroadcastKind) dto.BroadcastResult {
	result := dto.BroadcastResult{Total: len(users)}
	sendCtx := context.WithoutCancel(ctx)

	for i, u := range users {
		if errors.Is(ctx.Err(), context.Canceled) {
			uc.logger.Warn().Int("remaining", len(users)-i).Msg("Broadcast interrupted")
			result.Failed += len(users) - i
			break
		}

		if err := uc.limiter.Wait(sendCtx); err != nil {
			uc.logger.Warn().Err(err).Msg("Broadcast interrupted")
			result.Failed += len(users) - i
			break
		}

		if err := uc.deliver(sendCtx, u.ID, req, kind); err != nil {
			result.Failed++
			uc.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("Failed to deliver broadcast")
			continue
		}
		result.Success++
	}

	return result
}

func (uc *UseCase) deliver(ctx context.Context, chatID int64, req *dto.MessageRequest, kind entities.BroadcastKind) error {
	switch kind {
	case entities.BroadcastPhoto:
		return uc.sender.SendPhoto(ctx, chatID, req.PhotoFileID, req.Caption)
	case entities.BroadcastVideo:
		return uc.sender.SendVideo(ctx, chatID, req.VideoFileID, req.Caption)
	default:
		return uc.sender.SendText(ctx, chatID, req.Text, nil)
	}
}

// withSuffix appends the fixed caption suffix, shortening the caption so the
// suffix always fits in a Telegram media caption
func withSuffix(caption string) string {
	room := consts.MaxCaptionLength - len([]rune(captionSuffix))
	if runes := []rune(caption); len(runes) > room {
		caption = string(runes[:room])
	}
	return caption + captionSuffix
}
