package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{db: db}
}

// Add inserts the user, keeping the first-seen row when it already exists
func (r *userRepository) Add(ctx context.Context, user *entities.User) error {
	user.Language = user.Language.OrDefault()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(user).Error
	if err != nil {
		return persistenceErr("add user", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *userRepository) Get(ctx context.Context, userID int64) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, boterrors.ErrUserNotFound
	}
	if err != nil {
		return nil, persistenceErr("get user", err)
	}
	return &user, nil
}

// List retrieves all users ordered by join recency
func (r *userRepository) List(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := r.ordered(ctx).Find(&users).Error; err != nil {
		return nil, persistenceErr("list users", err)
	}
	return users, nil
}

// ListPage retrieves limit users starting at offset in List order
func (r *userRepository) ListPage(ctx context.Context, offset, limit int) ([]entities.User, error) {
	var users []entities.User
	if err := r.ordered(ctx).Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, persistenceErr("list users page", err)
	}
	return users, nil
}

func (r *userRepository) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("join_date DESC").Order("user_id DESC")
}

// Count returns the number of known users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return 0, persistenceErr("count users", err)
	}
	return count, nil
}

// CountJoinedSince returns the number of users first seen at or after since
func (r *userRepository) CountJoinedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("join_date >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, persistenceErr("count new users", err)
	}
	return count, nil
}

// UpdateLanguage persists the preferred language of a user
func (r *userRepository) UpdateLanguage(ctx context.Context, userID int64, lang entities.Language) error {
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Update("language", lang).Error
	if err != nil {
		return persistenceErr("update language", err)
	}
	return nil
}

// IncrementDownloads bumps the download counter and last activity of a user
func (r *userRepository) IncrementDownloads(ctx context.Context, userID int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"downloads_count": gorm.Expr("downloads_count + 1"),
			"last_download":   at,
		})
	if result.Error != nil {
		return persistenceErr("increment downloads", result.Error)
	}
	if result.RowsAffected == 0 {
		return boterrors.ErrUserNotFound
	}
	return nil
}

// SetBan sets or clears the ban flag of a user
func (r *userRepository) SetBan(ctx context.Context, userID int64, banned bool, reason string) error {
	if !banned {
		reason = ""
	}

	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"is_banned":  banned,
			"ban_reason": reason,
		})
	if result.Error != nil {
		return persistenceErr("set ban", result.Error)
	}
	if result.RowsAffected == 0 {
		return boterrors.ErrUserNotFound
	}
	return nil
}

// Stats aggregates user and download totals
func (r *userRepository) Stats(ctx context.Context, dayStart time.Time) (entities.Stats, error) {
	var stats entities.Stats
	db := r.db.WithContext(ctx).Model(&entities.User{})

	if err := db.Count(&stats.TotalUsers).Error; err != nil {
		return entities.Stats{}, persistenceErr("count users", err)
	}

	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("last_download >= ?", dayStart).
		Count(&stats.ActiveToday).Error
	if err != nil {
		return entities.Stats{}, persistenceErr("count active users", err)
	}

	err = r.db.WithContext(ctx).
		Model(&entities.User{}).
		Select("COALESCE(SUM(downloads_count), 0)").
		Scan(&stats.TotalDownloads).Error
	if err != nil {
		return entities.Stats{}, persistenceErr("sum downloads", err)
	}

	return stats, nil
}
