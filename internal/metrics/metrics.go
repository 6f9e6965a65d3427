package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cyclerent"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the default one.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	overdueRentals prometheus.Gauge
	escrowBalance  prometheus.Gauge
	jobRuns        *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Ledger requests by transport, method and result code.",
		}, []string{"transport", "method", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of ledger requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport", "method"}),
		overdueRentals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overdue_rentals",
			Help:      "Active rentals past their end time at the last report.",
		}),
		escrowBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "escrow_balance",
			Help:      "Funds held in escrow at the last reconciliation, in the smallest unit.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and result.",
		}, []string{"job", "result"}),
	}
	registry.MustRegister(m.requests, m.durations, m.overdueRentals, m.escrowBalance, m.jobRuns)
	return m
}

// ObserveRequest records one finished request. code is the ledger error
// code, or "OK".
func (m *Metrics) ObserveRequest(transport, method, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(transport, method, code).Inc()
	m.durations.WithLabelValues(transport, method).Observe(elapsed.Seconds())
}

func (m *Metrics) SetOverdueRentals(n int) {
	m.overdueRentals.Set(float64(n))
}

func (m *Metrics) SetEscrowBalance(v int64) {
	m.escrowBalance.Set(float64(v))
}

func (m *Metrics) ObserveJob(job string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
