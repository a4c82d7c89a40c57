package http

import (
	"net/http"
	"strconv"
	"time"

	"offersync/internal/handler/http/responsewriter"
	"offersync/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request counts and latency per route.
//
// The path label uses the ServeMux route pattern (e.g. "GET /offers/{id}")
// instead of the raw URL path, so offer IDs never explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.StatusCode()), duration)
	})
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
