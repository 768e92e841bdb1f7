package business

import (
	"context"
	"fmt"
	"time"

	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

// CheckMembership reports whether the user passes the forced-channel gate.
// The administrator always passes, as does everyone when no channel is configured.
func (uc *UseCase) CheckMembership(ctx context.Context, userID int64) (bool, error) {
	if uc.isAdmin(userID) {
		return true, nil
	}

	channels, err := uc.channels.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list forced channels: %w", err)
	}

	var notBefore time.Time
	if uc.membershipTTL > 0 {
		notBefore = uc.now().Add(-uc.membershipTTL)
	}

	passed := true
	for _, ch := range channels {
		ok, err := uc.memberships.Has(ctx, userID, ch.ChannelID, notBefore)
		if err != nil {
			return false, fmt.Errorf("failed to check membership: %w", err)
		}
		if !ok {
			passed = false
			break
		}
	}

	uc.metrics.RecordGateCheck(passed)
	return passed, nil
}

// VerifyMembership queries live membership for every forced channel and records
// each confirmed one. It fails if any channel query fails or reports a non-member;
// confirmations recorded earlier in the same pass are kept.
func (uc *UseCase) VerifyMembership(ctx context.Context, userID int64) (bool, error) {
	channels, err := uc.channels.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list forced channels: %w", err)
	}

	allJoined := true
	for _, ch := range channels {
		status, err := uc.members.MemberStatus(ctx, ch.ChannelID, userID)
		if err != nil {
			uc.logger.Warn().Err(err).
				Int64("user_id", userID).
				Str("channel_id", ch.ChannelID).
				Msg("Failed to query channel membership")
			allJoined = false
			continue
		}

		if !status.Joined() {
			allJoined = false
			continue
		}

		if err := uc.memberships.Save(ctx, userID, ch.ChannelID, uc.now()); err != nil {
			return false, fmt.Errorf("failed to save membership: %w", err)
		}
	}

	uc.logger.Info().
		Int64("user_id", userID).
		Bool("joined", allJoined).
		Int("channels", len(channels)).
		Msg("Membership verified")

	return allJoined, nil
}

// JoinKeyboard renders the join prompt for every forced channel
func (uc *UseCase) JoinKeyboard(ctx context.Context) (entities.Keyboard, error) {
	channels, err := uc.channels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forced channels: %w", err)
	}
	return joinKeyboard(channels), nil
}
