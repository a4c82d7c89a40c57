package config

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConfigMetrics tracks configuration loading health for a component.
// A non-zero fallback count after startup means an operator set an invalid
// value somewhere and the process is running on defaults.
type ConfigMetrics struct {
	// LoadTimestamp is the Unix time of the last configuration load.
	LoadTimestamp prometheus.Gauge

	// ValidationErrorsTotal counts validation failures by field.
	ValidationErrorsTotal *prometheus.CounterVec

	// FallbacksTotal counts fallbacks applied by field.
	FallbacksTotal *prometheus.CounterVec

	// FallbackActive is 1 while any fallback value is in effect.
	FallbackActive prometheus.Gauge
}

// NewConfigMetrics creates configuration metrics under the given subsystem.
// Metrics are created unregistered; call MustRegister to expose them.
func NewConfigMetrics(subsystem string) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: subsystem,
			Name:      "config_load_timestamp",
			Help:      "Unix timestamp of the last configuration load.",
		}),
		ValidationErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "config_validation_errors_total",
			Help:      "Total configuration validation errors by field.",
		}, []string{"field"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "config_fallbacks_total",
			Help:      "Total configuration fallbacks applied by field.",
		}, []string{"field"}),
		FallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: subsystem,
			Name:      "config_fallback_active",
			Help:      "1 if any configuration fallback is currently active.",
		}),
	}
}

// MustRegister registers all configuration metrics with the given registerer.
func (m *ConfigMetrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.LoadTimestamp, m.ValidationErrorsTotal, m.FallbacksTotal, m.FallbackActive)
}

// RecordLoadTimestamp records the time of a configuration load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.Set(float64(time.Now().Unix()))
}

// RecordValidationError records a validation failure for a field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback records a fallback applied for a field.
func (m *ConfigMetrics) RecordFallback(field string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive flags whether any fallback value is in effect.
func (m *ConfigMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}
