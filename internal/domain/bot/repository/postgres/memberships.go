package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new channel membership repository
func NewMembershipRepository(db *gorm.DB) deps.MembershipRepository {
	return &membershipRepository{db: db}
}

// Save records a confirmed membership, refreshing joined_at when it exists
func (r *membershipRepository) Save(ctx context.Context, userID int64, channelID string, at time.Time) error {
	membership := &entities.ChannelMembership{
		UserID:    userID,
		ChannelID: channelID,
		JoinedAt:  at,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"joined_at"}),
		}).
		Create(membership).Error
	if err != nil {
		return persistenceErr("save membership", err)
	}
	return nil
}

// Has checks for a confirmation of the user in the channel
func (r *membershipRepository) Has(ctx context.Context, userID int64, channelID string, notBefore time.Time) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&entities.ChannelMembership{}).
		Where("user_id = ? AND channel_id = ?", userID, channelID)

	if !notBefore.IsZero() {
		q = q.Where("joined_at >= ?", notBefore)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, persistenceErr("check membership", err)
	}
	return count > 0, nil
}
