package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/user", http.StatusOK, 10*time.Millisecond)
	m.Observe(http.MethodGet, "/user", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/user", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestAuthMetrics_IncLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetrics(reg)

	m.IncLogin(OutcomeSuccess)
	m.IncLogin(OutcomeInactiveUser)
	m.IncLogin(OutcomeInactiveUser)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeInactiveUser)))
}

func TestMetrics_NilSafe(t *testing.T) {
	var h *HTTPMetrics
	var a *AuthMetrics
	h.Observe("GET", "/", 200, time.Second)
	a.IncLogin(OutcomeError)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
	NewAuthMetrics(nil).IncLogin(OutcomeError)
}
