// Package report renders transaction reports as plain text documents
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/twexity/relaybots/internal/domain/tracker/entities"
)

// Placeholder is rendered for any absent field
const Placeholder = "N/A"

const (
	headerRule      = 60
	transactionRule = 50
)

// Format renders the report body. Times are rendered in loc.
func Format(r *entities.Report, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("TRON Transactions Report\n")
	fmt.Fprintf(&b, "Generated at: %s\n", r.GeneratedAt.In(loc).Format(time.DateTime))
	fmt.Fprintf(&b, "Total transactions: %d\n", len(r.Transactions))
	b.WriteString(strings.Repeat("=", headerRule) + "\n\n")

	for i, tx := range r.Transactions {
		fmt.Fprintf(&b, "Transaction #%d:\n", i+1)
		fmt.Fprintf(&b, "Hash: %s\n", orPlaceholder(tx.Hash))
		fmt.Fprintf(&b, "From: %s\n", orPlaceholder(tx.OwnerAddress))
		fmt.Fprintf(&b, "To: %s\n", orPlaceholder(tx.ToAddress))
		fmt.Fprintf(&b, "Amount: %s TRX\n", orPlaceholder(string(tx.Amount)))
		fmt.Fprintf(&b, "Type: %s\n", tx.TypeLabel())
		fmt.Fprintf(&b, "Status: %s\n", tx.StatusLabel())
		fmt.Fprintf(&b, "Time: %s\n", timeOf(tx, loc))
		b.WriteString(strings.Repeat("-", transactionRule) + "\n\n")
	}

	return b.String()
}

// Empty is the text used when a cycle retained no transactions
func Empty(interval time.Duration) string {
	return fmt.Sprintf("No transactions found in the last %s\n", humanize(interval))
}

// FileName names the report document
func FileName(r *entities.Report, loc *time.Location) string {
	return fmt.Sprintf("%d_transactions_%s.txt", len(r.Transactions), r.GeneratedAt.In(loc).Format("150405"))
}

// Caption is the document caption
func Caption(r *entities.Report, loc *time.Location) string {
	return fmt.Sprintf("📊 TRON Transactions Report\n⏰ %s\n📈 %d transactions",
		r.GeneratedAt.In(loc).Format(time.TimeOnly), len(r.Transactions))
}

// StartupNotice is sent to the report chat when the tracker starts
func StartupNotice(interval time.Duration) string {
	return fmt.Sprintf("🤖 TRON Transaction Bot Started\n⏰ Updates every %s\n📁 Only TXT files with transactions > 0 TRX",
		humanize(interval))
}

func timeOf(tx entities.Transaction, loc *time.Location) string {
	t, ok := tx.Time()
	if !ok {
		return Placeholder
	}
	return t.In(loc).Format(time.TimeOnly)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// humanize renders whole minutes as "N minutes" and anything else as a Go duration
func humanize(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return strconv.Itoa(n) + " minutes"
	}
	return d.String()
}
