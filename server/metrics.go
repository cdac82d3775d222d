package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// WithMetrics registers request counters on the given registerer
// (pass prometheus.DefaultRegisterer for the process-wide registry).
// Without this option the server records nothing.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Server) {
		m := &metrics{
			requests: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "trp",
				Subsystem: "server",
				Name:      "resolve_requests_total",
				Help:      "Resolve requests dispatched to the handler.",
			}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "trp",
				Subsystem: "server",
				Name:      "errors_total",
				Help:      "JSON-RPC error responses by error code.",
			}, []string{"code"}),
			throttled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "trp",
				Subsystem: "server",
				Name:      "throttled_total",
				Help:      "Requests rejected by the rate limiter.",
			}),
		}
		reg.MustRegister(m.requests, m.errors, m.throttled)
		s.metrics = m
	}
}

type metrics struct {
	requests  prometheus.Counter
	errors    *prometheus.CounterVec
	throttled prometheus.Counter
}

// The count helpers are nil-safe so the dispatch path never branches
// on whether metrics are enabled.

func (m *metrics) countRequest() {
	if m != nil {
		m.requests.Inc()
	}
}

func (m *metrics) countError(code int) {
	if m != nil {
		m.errors.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

func (m *metrics) countThrottled() {
	if m != nil {
		m.throttled.Inc()
	}
}
