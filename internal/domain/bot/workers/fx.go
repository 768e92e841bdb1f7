package workers

import (
	"go.uber.org/fx"

	"github.com/twexity/relaybots/internal/domain/bot/usecase/business"
)

// Module provides bot background workers
var Module = fx.Module("bot-workers",
	fx.Provide(provideSnapshotter, NewStatsJob),
	fx.Invoke(registerStatsJob),
)

func provideSnapshotter(uc *business.UseCase) Snapshotter {
	return uc
}

func registerStatsJob(lc fx.Lifecycle, job *StatsJob) {
	lc.Append(fx.Hook{
		OnStart: job.Start,
		OnStop:  job.Stop,
	})
}
