// Package deps declares the tracker domain dependencies
package deps

import (
	"context"

	"github.com/twexity/relaybots/internal/domain/tracker/entities"
)

// TransactionSource fetches the most recent transactions
type TransactionSource interface {
	FetchRecent(ctx context.Context) ([]entities.Transaction, error)
}

// ReportSink delivers a non-empty report somewhere
type ReportSink interface {
	Name() string
	Deliver(ctx context.Context, report *entities.Report) error
}

// Notifier sends plain text notices to the report chat
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
