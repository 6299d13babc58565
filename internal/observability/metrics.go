package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	transferCounter       *prometheus.CounterVec
	operationCounter      *prometheus.CounterVec
	accountsOpenedCounter prometheus.Counter
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		transferCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transfers_total",
			Help: "Transfer outcomes by kind and result",
		}, []string{"kind", "result"})

		operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_account_operations_total",
			Help: "Single-account operation outcomes",
		}, []string{"operation", "result"})

		accountsOpenedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_opened_total",
			Help: "Number of accounts registered since process start",
		})

		prometheus.MustRegister(
			httpDurationHistogram,
			transferCounter,
			operationCounter,
			accountsOpenedCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementTransfer(kind, result string) {
	if transferCounter == nil {
		return
	}
	transferCounter.WithLabelValues(kind, result).Inc()
}

func IncrementOperation(operation, result string) {
	if operationCounter == nil {
		return
	}
	operationCounter.WithLabelValues(operation, result).Inc()
}

func IncrementAccountOpened() {
	if accountsOpenedCounter == nil {
		return
	}
	accountsOpenedCounter.Inc()
}
