// Package workers contains background workers for the tracker domain
package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Cycler is the unit of work the poller repeats
type Cycler interface {
	RunCycle(ctx context.Context) (int, error)
	AnnounceStart(ctx context.Context)
	Interval() time.Duration
	RecordPanic()
}

// Poller runs a cycle immediately on start and then again after sleeping
// the full interval following each cycle. A failed or panicking cycle
// never stops the loop.
type Poller struct {
	cycler Cycler
	logger zerolog.Logger
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewPoller creates a poller
func NewPoller(cycler Cycler, logger zerolog.Logger) *Poller {
	return &Poller{
		cycler: cycler,
		logger: logger.With().Str("component", "poller").Logger(),
	}
}

// Start launches the polling goroutine
func (p *Poller) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		return fmt.Errorf("poller already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)

	p.logger.Info().Dur("interval", p.cycler.Interval()).Msg("Poller started")
	return nil
}

// Stop cancels the loop and waits for the in-flight cycle to return
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		p.logger.Info().Msg("Poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.cycler.AnnounceStart(ctx)

	for {
		p.cycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.cycler.Interval()):
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.cycler.RecordPanic()
			p.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in poll cycle")
		}
	}()

	p.logger.Debug().Msg("Checking transactions")

	reported, err := p.cycler.RunCycle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error().Err(err).Int("count", reported).Msg("Poll cycle failed")
		return
	}

	p.logger.Debug().Int("count", reported).Msg("Poll cycle finished")
}
