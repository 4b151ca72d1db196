package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordOrdersListed(3)
	m.RecordOrderFetch("ok")
	m.RecordCacheLookup("hit")
	m.RecordArchived()
	m.RecordAnalysis("ok", 0.1, 4)
	m.RecordAPICall("orders", 0.2, nil)
	m.RecordToolInvocation("get_frequent_items", "ok")
	assert.Nil(t, m.Registry())
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := NewMetrics("test")
	b := NewMetrics("test")

	a.RecordOrderFetch("ok")
	a.RecordOrderFetch("ok")
	b.RecordOrderFetch("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.OrderFetches.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OrderFetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.OrderFetches.WithLabelValues("failed")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("")
	m.RecordAnalysis("no_history", 0.01, 0)
	m.RecordToolInvocation("get_premium_info", "error")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `grocery_report_frequency_analyses_total{outcome="no_history"} 1`))
	assert.True(t, strings.Contains(body, `grocery_report_tools_invocations_total{status="error",tool="get_premium_info"} 1`))
}
