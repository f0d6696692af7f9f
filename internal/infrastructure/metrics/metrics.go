package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	EntriesCreated  prometheus.Counter
	EntriesReversed prometheus.Counter
	EntryErrors     *prometheus.CounterVec
	BalancesFixed   prometheus.Counter
	OrphansDeleted  prometheus.Counter

	// Transaction and transfer metrics
	TransactionsCreated *prometheus.CounterVec
	TransfersCreated    prometheus.Counter
	RecordsDeleted      *prometheus.CounterVec

	// Account metrics
	AccountsCreated  *prometheus.CounterVec
	AccountsArchived *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	TxRetries     prometheus.Counter

	// Cache metrics
	ReportCacheHits   prometheus.Counter
	ReportCacheMisses prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with the given registry.
// Taking the registry avoids duplicate-registration panics in tests.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		EntriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_journal_entries_created_total",
			Help: "Total number of journal entries created",
		}),
		EntriesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_journal_entries_reversed_total",
			Help: "Total number of journal entries reversed",
		}),
		EntryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_journal_entry_errors_total",
				Help: "Total number of journal entry errors by type",
			},
			[]string{"error_type"},
		),
		BalancesFixed: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_balances_fixed_total",
			Help: "Total number of balances repaired by recalculation",
		}),
		OrphansDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_orphan_entries_deleted_total",
			Help: "Total number of orphaned journal entries deleted",
		}),

		TransactionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transactions_created_total",
				Help: "Total number of transactions created by kind",
			},
			[]string{"kind"},
		),
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		RecordsDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_records_deleted_total",
				Help: "Total number of soft-deleted records by type",
			},
			[]string{"type"},
		),

		AccountsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_accounts_created_total",
				Help: "Total number of accounts created by kind",
			},
			[]string{"kind"},
		),
		AccountsArchived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_accounts_archived_total",
				Help: "Total number of accounts archived by kind",
			},
			[]string{"kind"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_db_connections",
			Help: "Current number of database connections",
		}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_tx_retries_total",
			Help: "Total number of transaction retries after serialization failures",
		}),

		ReportCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_report_cache_hits_total",
			Help: "Total report cache hits",
		}),
		ReportCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_report_cache_misses_total",
			Help: "Total report cache misses",
		}),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
