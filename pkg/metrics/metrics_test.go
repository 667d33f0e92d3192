package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew 每个实例使用独立Registry，可以重复创建
func TestNew(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())
	require.NotNil(t, a.DispatchTotal)
	require.NotNil(t, b.DispatchTotal)

	assert.NotPanics(t, func() { New(nil) })
}

func TestObserveDispatch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDispatch("GET", "books", OutcomeSuccess, 120*time.Millisecond)
	m.ObserveDispatch("GET", "books", OutcomeSuccess, 130*time.Millisecond)
	m.ObserveDispatch("POST", "loans", OutcomeFailure, 125*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.DispatchTotal.WithLabelValues("GET", "books", OutcomeSuccess)))
	assert.Equal(t, 1.0, counterValue(t, m.DispatchTotal.WithLabelValues("POST", "loans", OutcomeFailure)))

	var metric dto.Metric
	h := m.DispatchDuration.WithLabelValues("GET", "books").(prometheus.Histogram)
	require.NoError(t, h.Write(&metric))
	assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
}

func TestEngineAndEvents(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncEngineRequest("POST /loans/borrow", 200)
	m.IncEngineRequest("POST /loans/borrow", 400)
	m.IncEngineRequest("POST /loans/borrow", 0)
	m.IncLoanEvent("loan.borrowed")
	m.IncPublished("library.events", "loan.borrowed", nil)
	m.IncPublished("library.events", "loan.borrowed", errors.New("closed"))
	m.SetCircuitBreakerState("api", 1)

	assert.Equal(t, 1.0, counterValue(t, m.EngineRequestsTotal.WithLabelValues("POST /loans/borrow", "400")))
	assert.Equal(t, 1.0, counterValue(t, m.EngineRequestsTotal.WithLabelValues("POST /loans/borrow", "other")))
	assert.Equal(t, 1.0, counterValue(t, m.LoanEventsTotal.WithLabelValues("loan.borrowed")))
	assert.Equal(t, 1.0, counterValue(t, m.MessagesPublishedTotal.WithLabelValues("library.events", "loan.borrowed", OutcomeFailure)))

	var metric dto.Metric
	require.NoError(t, m.CircuitBreakerState.WithLabelValues("api").Write(&metric))
	assert.Equal(t, 1.0, metric.GetGauge().GetValue())
}

// TestNilMetrics 未配置指标时调用方不需要判空
func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDispatch("GET", "books", OutcomeSuccess, time.Millisecond)
		m.IncNotification("error")
		m.IncEngineRequest("GET /books", 200)
		m.IncLoanEvent("loan.returned")
		m.SetCircuitBreakerState("api", 0)
		m.IncPublished("x", "y", nil)
	})
}

func TestResource(t *testing.T) {
	tests := map[string]string{
		"/api/v1/users/3":      "users",
		"/api/v1/auth/login":   "auth",
		"/loans/borrow":        "loans",
		"/api/v1/books":        "books",
		"/":                    "root",
		"/api/v1/categories/6": "categories",
	}
	for path, want := range tests {
		assert.Equal(t, want, Resource(path), path)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.GetCounter().GetValue()
}
