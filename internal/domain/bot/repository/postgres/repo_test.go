package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
	"github.com/twexity/relaybots/internal/infrastructure/database"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewDB(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, entities.Models()...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUsers(t *testing.T, repo interface {
	Add(context.Context, *entities.User) error
}, n int) {
	t.Helper()

	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Add(context.Background(), &entities.User{
			ID:        int64(i),
			FirstName: fmt.Sprintf("user%d", i),
			JoinDate:  base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestUserRepository_AddIsIdempotent(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.User{ID: 1, Username: "first", FirstName: "Ali", JoinDate: base}))
	require.NoError(t, repo.Add(ctx, &entities.User{ID: 1, Username: "second", FirstName: "Reza", JoinDate: base.Add(time.Hour)}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	user, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "first", user.Username)
	assert.Equal(t, "Ali", user.FirstName)
	assert.Equal(t, entities.LanguageFA, user.Language)
	assert.True(t, user.JoinDate.Equal(base))
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.Get(context.Background(), 404)
	assert.ErrorIs(t, err, boterrors.ErrUserNotFound)
}

func TestUserRepository_ListOrderAndPages(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo, 25)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 25)
	assert.Equal(t, int64(25), all[0].ID, "most recent first")
	assert.Equal(t, int64(1), all[24].ID)

	page, err := repo.ListPage(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, all[20].ID, page[0].ID)

	joined, err := repo.CountJoinedSince(ctx, base.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(6), joined)
}

func TestUserRepository_DownloadsAndStats(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo, 3)

	today := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.IncrementDownloads(ctx, 1, today.Add(-time.Hour)))
	require.NoError(t, repo.IncrementDownloads(ctx, 2, today.Add(time.Hour)))
	require.NoError(t, repo.IncrementDownloads(ctx, 2, today.Add(2*time.Hour)))

	assert.ErrorIs(t, repo.IncrementDownloads(ctx, 99, today), boterrors.ErrUserNotFound)

	stats, err := repo.Stats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, entities.Stats{TotalUsers: 3, ActiveToday: 1, TotalDownloads: 3}, stats)
	assert.InDelta(t, 1.0, stats.AveragePerUser(), 0.001)

	user, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.DownloadsCount)
	require.NotNil(t, user.LastDownload)
}

func TestUserRepository_StatsEmpty(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	stats, err := repo.Stats(context.Background(), base)
	require.NoError(t, err)
	assert.Zero(t, stats)
	assert.Zero(t, stats.AveragePerUser())
}

func TestUserRepository_LanguageAndBan(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo, 1)

	require.NoError(t, repo.UpdateLanguage(ctx, 1, entities.LanguageEN))
	require.NoError(t, repo.SetBan(ctx, 1, true, "spam"))

	user, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageEN, user.Language)
	assert.True(t, user.IsBanned)
	assert.Equal(t, "spam", user.BanReason)

	require.NoError(t, repo.SetBan(ctx, 1, false, "ignored"))
	user, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)
	assert.Empty(t, user.BanReason)

	assert.ErrorIs(t, repo.SetBan(ctx, 2, true, ""), boterrors.ErrUserNotFound)
}

func TestChannelRepository(t *testing.T) {
	repo := NewChannelRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.ForcedChannel{ChannelID: "-1001", ChannelUsername: "news", ChannelTitle: "News"}))
	require.NoError(t, repo.Add(ctx, &entities.ForcedChannel{ChannelID: "-1002", ChannelTitle: "Private"}))
	require.NoError(t, repo.Add(ctx, &entities.ForcedChannel{ChannelID: "-1001", ChannelUsername: "news2", ChannelTitle: "News 2"}))

	channels, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "news2", channels[0].ChannelUsername, "add replaces")
	assert.Equal(t, "https://t.me/news2", channels[0].Link())
	assert.Equal(t, "https://t.me/c/-1002", channels[1].Link())

	require.NoError(t, repo.Remove(ctx, "-1002"))
	assert.ErrorIs(t, repo.Remove(ctx, "-1002"), boterrors.ErrChannelNotFound)

	channels, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, channels, 1)
}

func TestMembershipRepository(t *testing.T) {
	repo := NewMembershipRepository(newTestDB(t))
	ctx := context.Background()

	ok, err := repo.Has(ctx, 1, "-1001", time.Time{})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(ctx, 1, "-1001", base))
	require.NoError(t, repo.Save(ctx, 1, "-1001", base.Add(time.Hour)))

	ok, err = repo.Has(ctx, 1, "-1001", time.Time{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Has(ctx, 1, "-1001", base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok, "save refreshes joined_at")

	ok, err = repo.Has(ctx, 1, "-1001", base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Has(ctx, 2, "-1001", time.Time{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsRepository(t *testing.T) {
	repo := NewStatsRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entities.DailyStat{Date: "2025-03-09", TotalUsers: 5}))
	require.NoError(t, repo.Upsert(ctx, &entities.DailyStat{Date: "2025-03-10", TotalUsers: 6, NewUsers: 1}))
	require.NoError(t, repo.Upsert(ctx, &entities.DailyStat{Date: "2025-03-10", TotalUsers: 8, TotalDownloads: 4, NewUsers: 3}))

	stats, err := repo.Recent(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, entities.DailyStat{Date: "2025-03-10", TotalUsers: 8, TotalDownloads: 4, NewUsers: 3}, stats[0])

	stats, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stats, 1)
}
