// Package business contains business logic for the transaction tracker
package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/tracker/deps"
	"github.com/twexity/relaybots/internal/domain/tracker/entities"
	"github.com/twexity/relaybots/internal/domain/tracker/report"
	"github.com/twexity/relaybots/internal/infrastructure/metrics"
)

// Poll cycle stages used as metric labels
const (
	StageFetch   = "fetch"
	StageDeliver = "deliver"
	StagePanic   = "panic"
)

// Params holds UseCase dependencies
type Params struct {
	fx.In

	Source   deps.TransactionSource
	Sinks    []deps.ReportSink `group:"report_sinks"`
	Notifier deps.Notifier
	Tracker  *config.TrackerConfig
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// UseCase runs poll cycles: fetch, filter, report, deliver
type UseCase struct {
	source   deps.TransactionSource
	sinks    []deps.ReportSink
	notifier deps.Notifier
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
	logger   zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(p Params) *UseCase {
	return &UseCase{
		source:   p.Source,
		sinks:    p.Sinks,
		notifier: p.Notifier,
		interval: p.Tracker.Interval,
		metrics:  p.Metrics,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   p.Logger.With().Str("component", "tracker_usecase").Logger(),
	}
}

// FilterPositive keeps transactions whose amount is numeric and strictly
// positive. Order is preserved.
func FilterPositive(txs []entities.Transaction) []entities.Transaction {
	kept := make([]entities.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Amount.Positive() {
			kept = append(kept, tx)
		}
	}
	return kept
}

// RunCycle performs one poll cycle and returns the number of transactions
// reported. Nothing is delivered when no transaction survives the filter.
// Every sink is attempted even when an earlier one fails.
func (uc *UseCase) RunCycle(ctx context.Context) (int, error) {
	started := uc.now()
	cycleID := uc.newID()
	logger := uc.logger.With().Str("cycle_id", cycleID).Logger()

	txs, err := uc.source.FetchRecent(ctx)
	if err != nil {
		uc.metrics.RecordPollError(StageFetch)
		return 0, fmt.Errorf("fetch transactions: %w", err)
	}

	kept := FilterPositive(txs)
	if len(kept) == 0 {
		logger.Info().
			Int("fetched", len(txs)).
			Msg(report.Empty(uc.interval))
		uc.metrics.RecordPollCycle(0, uc.now().Sub(started).Seconds())
		return 0, nil
	}

	r := &entities.Report{
		CycleID:      cycleID,
		GeneratedAt:  started,
		Count:        len(kept),
		Transactions: kept,
	}

	var errs []error
	for _, sink := range uc.sinks {
		err := sink.Deliver(ctx, r)
		uc.metrics.RecordReportDelivery(sink.Name(), err)
		if err != nil {
			logger.Error().Err(err).Str("sink", sink.Name()).Msg("Failed to deliver report")
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}

	uc.metrics.RecordPollCycle(len(kept), uc.now().Sub(started).Seconds())

	if len(errs) > 0 {
		uc.metrics.RecordPollError(StageDeliver)
		return len(kept), errors.Join(errs...)
	}

	logger.Info().
		Int("fetched", len(txs)).
		Int("count", len(kept)).
		Int("sinks", len(uc.sinks)).
		Msg("Report delivered")

	return len(kept), nil
}

// AnnounceStart posts the startup notice. Failure is logged only.
func (uc *UseCase) AnnounceStart(ctx context.Context) {
	if err := uc.notifier.Notify(ctx, report.StartupNotice(uc.interval)); err != nil {
		uc.logger.Error().Err(err).Msg("Report chat is not reachable")
		return
	}
	uc.logger.Info().Msg("Report chat access confirmed")
}

// Interval is the pause between the end of one cycle and the start of the next
func (uc *UseCase) Interval() time.Duration {
	return uc.interval
}

// RecordPanic counts a cycle that panicked
func (uc *UseCase) RecordPanic() {
	uc.metrics.RecordPollError(StagePanic)
}
