package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the platform. It satisfies
// the wallet service's MetricsCollector interface.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	transactionsTotal *prometheus.CounterVec
	transactionVolume *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	balanceChanges    *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atlasyield_operation_duration_seconds",
				Help:    "Duration of ledger operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		transactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlasyield_transactions_total",
				Help: "Total ledger entries written, by type.",
			},
			[]string{"type"},
		),
		transactionVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlasyield_transaction_volume_total",
				Help: "Total transaction amount, by type.",
			},
			[]string{"type"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlasyield_operation_errors_total",
				Help: "Total failed operations, by operation and error class.",
			},
			[]string{"operation", "error"},
		),
		balanceChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlasyield_balance_changes_total",
				Help: "Wallet balance changes, by direction.",
			},
			[]string{"direction"},
		),
	}
}

// RecordOperationDuration records the duration of an operation.
func (m *Metrics) RecordOperationDuration(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordTransaction counts a ledger entry and its volume.
func (m *Metrics) RecordTransaction(txType string, amount float64) {
	m.transactionsTotal.WithLabelValues(txType).Inc()
	m.transactionVolume.WithLabelValues(txType).Add(amount)
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(operation, errType string) {
	m.errorsTotal.WithLabelValues(operation, errType).Inc()
}

// RecordBalanceChange counts a wallet balance movement by direction.
// The user id is not a label; per-user series would be unbounded.
func (m *Metrics) RecordBalanceChange(_ uint, oldBalance, newBalance float64) {
	direction := "credit"
	if newBalance < oldBalance {
		direction = "debit"
	}
	m.balanceChanges.WithLabelValues(direction).Inc()
}
