// Package telegram delivers transaction reports to a Telegram chat
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/internal/domain/tracker/entities"
	trackererrors "github.com/twexity/relaybots/internal/domain/tracker/errors"
	"github.com/twexity/relaybots/internal/domain/tracker/report"
)

// SinkName labels this sink in logs and metrics
const SinkName = "telegram"

// RequestTimeout bounds a single Telegram API call
const RequestTimeout = 60 * time.Second

type documentAPI interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *tgbot.SendDocumentParams) (*models.Message, error)
}

// DocumentSink implements deps.ReportSink and deps.Notifier
type DocumentSink struct {
	api    documentAPI
	chatID any
	loc    *time.Location
	logger zerolog.Logger
}

// NewDocumentSink creates a sink posting to chatID, which is either a
// numeric id or an @channel username.
func NewDocumentSink(bot *tgbot.Bot, chatID string, logger zerolog.Logger) *DocumentSink {
	return newDocumentSink(bot, chatID, time.Local, logger)
}

func newDocumentSink(api documentAPI, chatID string, loc *time.Location, logger zerolog.Logger) *DocumentSink {
	return &DocumentSink{
		api:    api,
		chatID: parseChatID(chatID),
		loc:    loc,
		logger: logger.With().Str("component", "report-sink").Logger(),
	}
}

// Name implements deps.ReportSink
func (s *DocumentSink) Name() string {
	return SinkName
}

// Deliver uploads the report as a text document built in memory
func (s *DocumentSink) Deliver(ctx context.Context, r *entities.Report) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	content := report.Format(r, s.loc)

	_, err := s.api.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: s.chatID,
		Document: &models.InputFileUpload{
			Filename: report.FileName(r, s.loc),
			Data:     strings.NewReader(content),
		},
		Caption: report.Caption(r, s.loc),
	})
	if err != nil {
		return fmt.Errorf("%w: send document: %w", trackererrors.ErrDeliveryFailed, err)
	}

	s.logger.Info().
		Str("cycle_id", r.CycleID).
		Int("count", len(r.Transactions)).
		Msg("Report document sent")

	return nil
}

// Notify implements deps.Notifier
func (s *DocumentSink) Notify(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if _, err := s.api.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: s.chatID, Text: text}); err != nil {
		return fmt.Errorf("%w: send message: %w", trackererrors.ErrDeliveryFailed, err)
	}
	return nil
}

func parseChatID(chatID string) any {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return id
	}
	return chatID
}
