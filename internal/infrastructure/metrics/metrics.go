package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for both bot services
type Metrics struct {
	// Tracker metrics
	PollCyclesTotal      prometheus.Counter
	PollCycleErrors      *prometheus.CounterVec
	PollCycleDuration    prometheus.Histogram
	TransactionsReported prometheus.Counter
	ReportsDelivered     *prometheus.CounterVec
	ReportDeliveryErrors *prometheus.CounterVec

	// Downloader metrics
	DownloadsTotal      *prometheus.CounterVec
	GateChecks          *prometheus.CounterVec
	BroadcastsTotal     prometheus.Counter
	BroadcastRecipients *prometheus.CounterVec
	HandlerPanics       prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	GetDefaultMetrics()
}

// NewMetrics registers every collector with the default Prometheus registry
func NewMetrics() *Metrics {
	return &Metrics{
		PollCyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relaybots_tracker_poll_cycles_total",
			Help: "Total number of transaction poll cycles",
		}),
		PollCycleErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaybots_tracker_poll_cycle_errors_total",
				Help: "Total number of failed poll cycles",
			},
			[]string{"stage"},
		),
		PollCycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "relaybots_tracker_poll_cycle_duration_seconds",
			Help:    "Duration of poll cycles in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		TransactionsReported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relaybots_tracker_transactions_reported_total",
			Help: "Total number of transactions included in reports",
		}),
		ReportsDelivered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaybots_tracker_reports_delivered_total",
				Help: "Total number of reports delivered per sink",
			},
			[]string{"sink"},
		),
		ReportDeliveryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaybots_tracker_report_delivery_errors_total",
				Help: "Total number of report delivery failures per sink",
			},
			[]string{"sink"},
		),

		DownloadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaybots_downloader_downloads_total",
				Help: "Total number of media requests by outcome",
			},
			[]string{"outcome"},
		),
		GateChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaybots_downloader_gate_checks_total",
				Help: "Total number of membership gate checks by result",
			},
			[]string{"result"},
		),
		BroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relaybots_downloader_broadcasts_total",
			Help: "Total number of broadcasts started",
		}),
		BroadcastRecipients: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaybots_downloader_broadcast_recipients_total",
				Help: "Total number of broadcast deliveries by result",
			},
			[]string{"result"},
		),
		HandlerPanics: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relaybots_handler_panics_total",
			Help: "Total number of recovered panics in update handlers",
		}),
	}
}

// RecordPollCycle records a completed poll cycle
func (m *Metrics) RecordPollCycle(reported int, durationSeconds float64) {
	m.PollCyclesTotal.Inc()
	m.PollCycleDuration.Observe(durationSeconds)
	if reported > 0 {
		m.TransactionsReported.Add(float64(reported))
	}
}

// RecordPollError records a poll cycle failure at stage
func (m *Metrics) RecordPollError(stage string) {
	if stage == "" {
		stage = "unknown"
	}
	m.PollCycleErrors.WithLabelValues(stage).Inc()
}

// RecordReportDelivery records the outcome of delivering a report to sink
func (m *Metrics) RecordReportDelivery(sink string, err error) {
	if err != nil {
		m.ReportDeliveryErrors.WithLabelValues(sink).Inc()
		return
	}
	m.ReportsDelivered.WithLabelValues(sink).Inc()
}

// RecordDownload records a media request outcome
func (m *Metrics) RecordDownload(outcome string) {
	m.DownloadsTotal.WithLabelValues(outcome).Inc()
}

// RecordGateCheck records a membership gate decision
func (m *Metrics) RecordGateCheck(passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	m.GateChecks.WithLabelValues(result).Inc()
}

// RecordBroadcast records a finished broadcast tally
func (m *Metrics) RecordBroadcast(success, failed int) {
	m.BroadcastsTotal.Inc()
	m.BroadcastRecipients.WithLabelValues("success").Add(float64(success))
	m.BroadcastRecipients.WithLabelValues("failed").Add(float64(failed))
}

// RecordHandlerPanic records a recovered handler panic
func (m *Metrics) RecordHandlerPanic() {
	m.HandlerPanics.Inc()
}
