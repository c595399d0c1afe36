package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order status transitions and outbound payment and
// carrier calls.
type OrderMetrics struct {
	transitions     *prometheus.CounterVec
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return nil
	}
	m := &OrderMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Statuses appended to order histories.",
		}, []string{"status", "source"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_provider_requests_total",
			Help:      "Outbound requests made to payment and carrier providers.",
		}, []string{"provider", "operation", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_provider_request_duration_seconds",
			Help:      "Latency of outbound provider requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
	}
	reg.MustRegister(m.transitions, m.providerCalls, m.providerLatency)
	return m
}

// IncTransition counts a status appended by source (checkout, payment,
// webhook, manual or cancel).
func (m *OrderMetrics) IncTransition(status, source string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status), normalizeLabel(source)).Inc()
}

func (m *OrderMetrics) ObserveProviderCall(provider, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	provider, operation = normalizeLabel(provider), normalizeLabel(operation)
	m.providerCalls.WithLabelValues(provider, operation, outcomeLabel(err)).Inc()
	m.providerLatency.WithLabelValues(provider, operation).Observe(duration.Seconds())
}
