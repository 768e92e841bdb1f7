// Package errors contains domain-specific errors for the tracker domain
package errors

import (
	pkgerrors "github.com/twexity/relaybots/pkg/errors"
)

// Domain errors for tracker operations
var (
	ErrNetwork           = pkgerrors.NewInternalError("network failure")
	ErrUnexpectedStatus  = pkgerrors.NewInternalError("unexpected status from transaction API")
	ErrMalformedResponse = pkgerrors.NewInternalError("malformed response from transaction API")
	ErrDeliveryFailed    = pkgerrors.NewInternalError("report delivery failed")
)
