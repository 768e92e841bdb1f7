package workers

import (
	"go.uber.org/fx"

	"github.com/twexity/relaybots/internal/domain/tracker/usecase/business"
)

// Module provides tracker background workers
var Module = fx.Module("tracker-workers",
	fx.Provide(provideCycler, NewPoller),
	fx.Invoke(registerPoller),
)

func provideCycler(uc *business.UseCase) Cycler {
	return uc
}

func registerPoller(lc fx.Lifecycle, poller *Poller) {
	lc.Append(fx.Hook{
		OnStart: poller.Start,
		OnStop:  poller.Stop,
	})
}
