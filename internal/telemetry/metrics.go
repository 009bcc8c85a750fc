// Package telemetry provides Prometheus metrics for the live session core and
// delivery surfaces.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	SessionsStarted prometheus.Counter
	SessionsEnded   *prometheus.CounterVec // label: reason
	PollsTotal      prometheus.Counter
	EventsEmitted   prometheus.Counter
	UpstreamErrors  prometheus.Counter

	// Gauges
	ActiveSessions prometheus.Gauge
	WSClients      prometheus.Gauge
)

// Init registers metrics (idempotent). Callers that never Init (tests, CLI)
// get nil metrics, which every helper treats as disabled.
func Init() {
	once.Do(func() {
		SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{Name: "courtside_sessions_started_total", Help: "Live play-by-play sessions started"})
		SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{Name: "courtside_sessions_ended_total", Help: "Live sessions ended, by terminal reason"}, []string{"reason"})
		PollsTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "courtside_polls_total", Help: "Upstream play-by-play polls issued"})
		EventsEmitted = promauto.NewCounter(prometheus.CounterOpts{Name: "courtside_events_emitted_total", Help: "Play events delivered to clients"})
		UpstreamErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "courtside_upstream_errors_total", Help: "Upstream fetch failures"})
		ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{Name: "courtside_active_sessions", Help: "Currently running live sessions"})
		WSClients = promauto.NewGauge(prometheus.GaugeOpts{Name: "courtside_ws_clients", Help: "Connected WebSocket clients"})
	})
}

// IncCounter increments c if metrics are initialized.
func IncCounter(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// AddCounter adds n to c if metrics are initialized.
func AddCounter(c prometheus.Counter, n float64) {
	if c != nil {
		c.Add(n)
	}
}

// IncReason increments the session-ended counter for a terminal reason.
func IncReason(reason string) {
	if SessionsEnded != nil {
		SessionsEnded.WithLabelValues(reason).Inc()
	}
}

// AddGauge adjusts g by delta if metrics are initialized.
func AddGauge(g prometheus.Gauge, delta float64) {
	if g != nil {
		g.Add(delta)
	}
}
