package business

import (
	"context"

	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

// SnapshotDailyStats writes today's statistics row
func (uc *UseCase) SnapshotDailyStats(ctx context.Context) error {
	now := uc.now()
	dayStart := startOfDay(now)

	stats, err := uc.users.Stats(ctx, dayStart)
	if err != nil {
		return err
	}

	newUsers, err := uc.users.CountJoinedSince(ctx, dayStart)
	if err != nil {
		return err
	}

	stat := &entities.DailyStat{
		Date:           now.Format("2006-01-02"),
		TotalUsers:     stats.TotalUsers,
		TotalDownloads: stats.TotalDownloads,
		NewUsers:       newUsers,
	}
	if err := uc.stats.Upsert(ctx, stat); err != nil {
		return err
	}

	uc.logger.Info().
		Str("date", stat.Date).
		Int64("total_users", stat.TotalUsers).
		Int64("new_users", stat.NewUsers).
		Msg("Daily statistics saved")

	return nil
}
