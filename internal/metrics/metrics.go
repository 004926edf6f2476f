// Package metrics exposes the controller's prometheus collectors.
// All methods are safe on a nil *Metrics so components can run without them.
package metrics

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "water_heater"

// Heartbeat results.
const (
	ResultOK            = "ok"
	ResultFetchFailed   = "fetch_failed"
	ResultCommandFailed = "command_failed"
)

type Metrics struct {
	registry *prometheus.Registry

	heartbeats    *prometheus.CounterVec
	fetchAttempts prometheus.Counter
	modeCommands  *prometheus.CounterVec
	temperature   prometheus.Gauge
	target        prometheus.Gauge
	boost         prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		heartbeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heartbeats_total",
			Help:      "Control cycles run, by result.",
		}, []string{"result"}),
		fetchAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Telemetry fetch attempts made against the remote service.",
		}),
		modeCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_commands_total",
			Help:      "Mode change commands sent to the remote service.",
		}, []string{"mode", "result"}),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "Last observed water temperature.",
		}),
		target: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "target_celsius",
			Help:      "Active boost target; NaN when none is set.",
		}),
		boost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "boost_mode",
			Help:      "1 while the last observed mode is BOOST.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.heartbeats,
		m.fetchAttempts,
		m.modeCommands,
		m.temperature,
		m.target,
		m.boost,
	)
	m.target.Set(math.NaN())

	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Heartbeat(result string) {
	if m == nil {
		return
	}
	m.heartbeats.WithLabelValues(result).Inc()
}

func (m *Metrics) FetchAttempt() {
	if m == nil {
		return
	}
	m.fetchAttempts.Inc()
}

func (m *Metrics) ModeCommand(mode string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.modeCommands.WithLabelValues(mode, result).Inc()
}

// ObserveState publishes the controller's current view. target nil means no boost target.
func (m *Metrics) ObserveState(temperature float64, boosting bool, target *float64) {
	if m == nil {
		return
	}
	m.temperature.Set(temperature)
	if boosting {
		m.boost.Set(1)
	} else {
		m.boost.Set(0)
	}
	if target == nil {
		m.target.Set(math.NaN())
	} else {
		m.target.Set(*target)
	}
}
