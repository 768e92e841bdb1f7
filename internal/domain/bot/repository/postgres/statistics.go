package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new daily statistics repository
func NewStatsRepository(db *gorm.DB) deps.StatsRepository {
	return &statsRepository{db: db}
}

// Upsert writes the row for stat.Date, replacing any previous values
func (r *statsRepository) Upsert(ctx context.Context, stat *entities.DailyStat) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_users", "total_downloads", "new_users"}),
		}).
		Create(stat).Error
	if err != nil {
		return persistenceErr("upsert daily stat", err)
	}
	return nil
}

// Recent returns up to days rows, newest first
func (r *statsRepository) Recent(ctx context.Context, days int) ([]entities.DailyStat, error) {
	var stats []entities.DailyStat
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(days).
		Find(&stats).Error
	if err != nil {
		return nil, persistenceErr("list daily stats", err)
	}
	return stats, nil
}
