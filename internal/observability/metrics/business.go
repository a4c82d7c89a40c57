package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its metadata.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// UpdateOffersTotal updates the stored-offer gauge for one deal type.
// Updated after every sync and cleanup run to reflect the current state.
func UpdateOffersTotal(dealType string, count int) {
	OffersTotal.WithLabelValues(dealType).Set(float64(count))
}

// RecordUpstreamFetch records the result and duration of one feed fetch.
func RecordUpstreamFetch(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	UpstreamFetchTotal.WithLabelValues(result).Inc()
	UpstreamFetchDuration.Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "list_offers", "upsert_offer").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
