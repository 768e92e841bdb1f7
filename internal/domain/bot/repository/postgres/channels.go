package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new forced channel repository
func NewChannelRepository(db *gorm.DB) deps.ChannelRepository {
	return &channelRepository{db: db}
}

// Add inserts the channel or replaces the stored handle and title
func (r *channelRepository) Add(ctx context.Context, channel *entities.ForcedChannel) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"channel_username", "channel_title"}),
		}).
		Create(channel).Error
	if err != nil {
		return persistenceErr("add channel", err)
	}
	return nil
}

// Remove deletes a forced channel
func (r *channelRepository) Remove(ctx context.Context, channelID string) error {
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Delete(&entities.ForcedChannel{})
	if result.Error != nil {
		return persistenceErr("remove channel", result.Error)
	}
	if result.RowsAffected == 0 {
		return boterrors.ErrChannelNotFound
	}
	return nil
}

// List retrieves all forced channels
func (r *channelRepository) List(ctx context.Context) ([]entities.ForcedChannel, error) {
	var channels []entities.ForcedChannel
	if err := r.db.WithContext(ctx).Order("channel_id").Find(&channels).Error; err != nil {
		return nil, persistenceErr("list channels", err)
	}
	return channels, nil
}
