// Package workers contains background workers for the bot domain
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/config"
)

// jobTimeout bounds a single statistics snapshot
const jobTimeout = time.Minute

// Snapshotter writes the daily statistics row
type Snapshotter interface {
	SnapshotDailyStats(ctx context.Context) error
}

// StatsJob runs the daily statistics snapshot on a cron schedule
type StatsJob struct {
	schedule string
	target   Snapshotter
	cron     *cron.Cron
	lock     sync.Mutex
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewStatsJob creates the statistics job. The schedule is a five-field
// cron expression or a descriptor such as @daily.
func NewStatsJob(cfg *config.StatsConfig, target Snapshotter, logger zerolog.Logger) (*StatsJob, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid STATS_SCHEDULE %q: %w", cfg.Schedule, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &StatsJob{
		schedule: cfg.Schedule,
		target:   target,
		cron:     cron.New(cron.WithParser(parser)),
		logger:   logger.With().Str("component", "stats-job").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start schedules the job
func (j *StatsJob) Start(_ context.Context) error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return fmt.Errorf("failed to schedule stats job: %w", err)
	}

	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Msg("Stats job started")
	return nil
}

// Run takes one snapshot. Overlapping ticks are skipped.
func (j *StatsJob) Run() {
	if !j.lock.TryLock() {
		j.logger.Warn().Msg("Previous stats snapshot still running, skipping tick")
		return
	}
	defer j.lock.Unlock()

	ctx, cancel := context.WithTimeout(j.ctx, jobTimeout)
	defer cancel()

	if err := j.target.SnapshotDailyStats(ctx); err != nil {
		j.logger.Error().Err(err).Msg("Failed to snapshot daily statistics")
	}
}

// Stop stops the scheduler and waits for an in-flight snapshot
func (j *StatsJob) Stop(ctx context.Context) error {
	j.cancel()

	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	j.logger.Info().Msg("Stats job stopped")
	return nil
}
