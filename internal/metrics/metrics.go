// Package metrics exposes prometheus collectors for the relay and the HTTP
// server that serves them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinbridge_relay_requests_total",
		Help: "Relay dispatcher outcomes by action.",
	}, []string{"action", "outcome"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coinbridge_api_request_duration_seconds",
		Help:    "Economy API call latency.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"action", "result"})

	apiUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coinbridge_api_up",
		Help: "1 when the last availability probe reached the economy API.",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinbridge_commands_total",
		Help: "Slash commands handled, by command and result.",
	}, []string{"command", "result"})
)

// ObserveRelay counts one dispatcher outcome.
func ObserveRelay(action, outcome string) {
	relayRequests.WithLabelValues(action, outcome).Inc()
}

// ObserveAPICall records the latency of one economy API attempt.
// result is "ok", "error" (non-200) or "unreachable".
func ObserveAPICall(action, result string, d time.Duration) {
	apiLatency.WithLabelValues(action, result).Observe(d.Seconds())
}

func SetAPIUp(up bool) {
	if up {
		apiUp.Set(1)
		return
	}
	apiUp.Set(0)
}

// ObserveCommand counts a handled slash command.
func ObserveCommand(command string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	commandsTotal.WithLabelValues(command, result).Inc()
}
