// Package kafka publishes transaction reports to Kafka
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/tracker/entities"
)

// SinkName labels this sink in logs and metrics
const SinkName = "kafka"

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implements deps.ReportSink
type Producer struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

// NewProducer creates a report producer for the configured brokers
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.ReportTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		WriteTimeout: writeTimeout,
	}

	logger = logger.With().Str("component", "kafka-producer").Logger()
	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.ReportTopic).
		Msg("Kafka producer initialized successfully")

	return newProducer(writer, cfg.ReportTopic, logger)
}

func newProducer(writer messageWriter, topic string, logger zerolog.Logger) *Producer {
	return &Producer{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Name implements deps.ReportSink
func (p *Producer) Name() string {
	return SinkName
}

// Deliver publishes the report as one JSON event keyed by cycle id
func (p *Producer) Deliver(ctx context.Context, report *entities.Report) error {
	value, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(report.CycleID),
		Value: value,
		Time:  report.GeneratedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("topic", p.topic).Str("cycle_id", report.CycleID).Msg("Failed to send Kafka message")
		return err
	}

	p.logger.Info().
		Str("topic", p.topic).
		Str("cycle_id", report.CycleID).
		Int("count", report.Count).
		Msg("Kafka message sent successfully")

	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}
