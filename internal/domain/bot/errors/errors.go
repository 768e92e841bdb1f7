// Package errors contains domain-specific errors for the bot domain
package errors

import (
	pkgerrors "github.com/twexity/relaybots/pkg/errors"
)

// Domain errors for bot operations
var (
	ErrUserNotFound         = pkgerrors.NewNotFoundError("user not found")
	ErrChannelNotFound      = pkgerrors.NewNotFoundError("forced channel not found")
	ErrMediaNotFound        = pkgerrors.NewNotFoundError("no downloadable content found")
	ErrInvalidLink          = pkgerrors.NewValidationError("not a valid Instagram link")
	ErrInvalidAction        = pkgerrors.NewValidationError("invalid callback action")
	ErrNotForwardedChannel  = pkgerrors.NewValidationError("message is not forwarded from a channel")
	ErrAccessDenied         = pkgerrors.NewPermissionError("access denied")
	ErrUserBanned           = pkgerrors.NewPermissionError("user is banned")
	ErrPersistence          = pkgerrors.NewInternalError("persistence failure")
	ErrNetwork              = pkgerrors.NewInternalError("network failure")
	ErrUnexpectedStatus     = pkgerrors.NewInternalError("unexpected status from media API")
	ErrMalformedResponse    = pkgerrors.NewInternalError("malformed response from media API")
	ErrTelegramAPI          = pkgerrors.NewInternalError("telegram API error")
	ErrStateStore           = pkgerrors.NewInternalError("conversation state store failure")
	ErrMembershipCheckFails = pkgerrors.NewInternalError("membership check failed")
)
