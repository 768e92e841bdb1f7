package telegram

import (
	"errors"

	"github.com/twexity/relaybots/internal/domain/bot/consts"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
	pkgerrors "github.com/twexity/relaybots/pkg/errors"
)

// userReply picks the text shown for a failed update. Permission and
// validation errors are rejections the user can act on; anything else is a
// failure on our side and gets the generic text.
func userReply(err error) (text string, rejected bool) {
	switch {
	case errors.Is(err, boterrors.ErrUserBanned):
		return consts.BannedText, true
	case pkgerrors.IsPermissionError(err):
		return consts.AccessDeniedText, true
	case errors.Is(err, boterrors.ErrInvalidLink):
		return consts.InvalidLinkText, true
	case errors.Is(err, boterrors.ErrNotForwardedChannel):
		return consts.ForwardRequiredText, true
	case pkgerrors.IsValidationError(err):
		return consts.InvalidRequestText, true
	}
	return consts.FailureText, false
}
