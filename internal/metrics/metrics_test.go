package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest("grpc", "RentCycle", "OK", 5*time.Millisecond)
	m.ObserveRequest("grpc", "RentCycle", "CYCLE_UNAVAILABLE", time.Millisecond)
	m.ObserveRequest("grpc", "RentCycle", "OK", time.Millisecond)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("grpc", "RentCycle", "OK")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("grpc", "RentCycle", "CYCLE_UNAVAILABLE")))

	m.ObserveJob("reconcile_escrow", nil)
	m.ObserveJob("reconcile_escrow", errors.New("mismatch"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobRuns.WithLabelValues("reconcile_escrow", "failure")))

	m.SetOverdueRentals(3)
	m.SetEscrowBalance(120)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.overdueRentals))
	assert.Equal(t, float64(120), testutil.ToFloat64(m.escrowBalance))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetEscrowBalance(42)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "cyclerent_escrow_balance 42")
}

func TestNewServer_ServesJobGauges(t *testing.T) {
	m := New()
	m.SetOverdueRentals(2)
	m.SetEscrowBalance(40)
	m.ObserveJob("reconcile-escrow", nil)

	srv := NewServer(":0", m)
	assert.Equal(t, ":0", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "cyclerent_overdue_rentals 2")
	assert.Contains(t, body, "cyclerent_escrow_balance 40")
	assert.Contains(t, body, `cyclerent_job_runs_total{job="reconcile-escrow",result="success"} 1`)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
