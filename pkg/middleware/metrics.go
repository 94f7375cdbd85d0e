package middleware

import (
	"net/http"
	"time"

	"user-management/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records each request under its chi route pattern, not the raw path,
// so label cardinality stays bounded.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			m.Observe(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
