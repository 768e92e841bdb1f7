// Package tracker contains the transaction tracker domain module
package tracker

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
	telegramDelivery "github.com/twexity/relaybots/internal/domain/tracker/delivery/telegram"
	"github.com/twexity/relaybots/internal/domain/tracker/deps"
	"github.com/twexity/relaybots/internal/domain/tracker/repository/http_clients/tronscan"
	kafkaRepo "github.com/twexity/relaybots/internal/domain/tracker/repository/kafka"
	"github.com/twexity/relaybots/internal/domain/tracker/usecase/business"
	"github.com/twexity/relaybots/internal/domain/tracker/workers"
	"github.com/twexity/relaybots/internal/infrastructure/telegram"
)

// Module provides tracker components for fx dependency injection
var Module = fx.Module("tracker",
	// Repository
	fx.Provide(tronscan.NewClient),
	fx.Provide(provideKafkaSinks),

	// Delivery
	fx.Provide(provideTelegramSink),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Workers
	workers.Module,
)

// telegramSinkResult exposes the document sink both as a report sink and
// as the startup notifier
type telegramSinkResult struct {
	fx.Out

	Sink     deps.ReportSink `group:"report_sinks"`
	Notifier deps.Notifier
}

func provideTelegramSink(bot *telegram.Bot, cfg *config.TrackerConfig, logger zerolog.Logger) telegramSinkResult {
	sink := telegramDelivery.NewDocumentSink(bot.Raw(), cfg.ChatID, logger)
	return telegramSinkResult{Sink: sink, Notifier: sink}
}

type kafkaSinksResult struct {
	fx.Out

	Sinks []deps.ReportSink `group:"report_sinks,flatten"`
}

// provideKafkaSinks adds the Kafka sink only when brokers are configured
func provideKafkaSinks(lc fx.Lifecycle, cfg *config.KafkaConfig, logger zerolog.Logger) kafkaSinksResult {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("KAFKA_BROKERS not set, reports go to Telegram only")
		return kafkaSinksResult{}
	}

	producer := kafkaRepo.NewProducer(cfg, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return kafkaSinksResult{Sinks: []deps.ReportSink{producer}}
}
