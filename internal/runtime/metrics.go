package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Inbound envelope outcomes recorded on the dispatch counter.
const (
	outcomeHandled        = "handled"
	outcomeReply          = "reply"
	outcomeNoRoute        = "no_route"
	outcomeUnboundRoute   = "unbound_route"
	outcomeUnmatchedReply = "unmatched_reply"
	outcomeDecodeError    = "decode_error"
)

// dispatchMetrics holds the Prometheus instruments for the dispatch path.
// A nil *dispatchMetrics is valid and records nothing, so callers never need
// to branch on whether metrics are enabled.
type dispatchMetrics struct {
	inbound  *prometheus.CounterVec
	timeouts prometheus.Counter
	duration prometheus.Histogram
}

func newDispatchMetrics(reg prometheus.Registerer) *dispatchMetrics {
	m := &dispatchMetrics{
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wirelink_envelopes_inbound_total",
			Help: "Inbound envelopes by dispatch outcome.",
		}, []string{"outcome"}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wirelink_pending_timeouts_total",
			Help: "Pending reply handlers that expired before a reply arrived.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wirelink_handler_duration_seconds",
			Help:    "Route handler execution time.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.inbound, m.timeouts, m.duration)
	return m
}

func (m *dispatchMetrics) incInbound(outcome string) {
	if m == nil {
		return
	}
	m.inbound.WithLabelValues(outcome).Inc()
}

func (m *dispatchMetrics) incTimeout() {
	if m == nil {
		return
	}
	m.timeouts.Inc()
}

func (m *dispatchMetrics) observeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
