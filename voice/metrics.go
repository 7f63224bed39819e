// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Play results recorded by Metrics.
const (
	resultOK            = "ok"
	resultCapacity      = "capacity_exceeded"
	resultAssetMissing  = "asset_missing"
	resultMixerMissing  = "mixer_missing"
	resultGraphFailure  = "graph_error"
	reasonEnded         = "ended"
	reasonStopped       = "stopped"
	reasonFadeOutRemove = "faded"
	reasonUnloaded      = "unloaded"
)

// Metrics contains Prometheus metrics for engine activity.
type Metrics struct {
	activeVoices  prometheus.Gauge
	activeStreams prometheus.Gauge
	plays         *prometheus.CounterVec
	evictions     prometheus.Counter
	reclaimed     *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewMetrics creates the engine metrics and registers them with registry.
func NewMetrics(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		activeVoices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "audmux_active_voices",
			Help: "Number of occupied voice slots",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "audmux_active_streams",
			Help: "Number of occupied stream slots",
		}),
		plays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audmux_play_total",
				Help: "Total number of play requests by outcome",
			},
			[]string{"kind", "result"},
		),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audmux_evictions_total",
			Help: "Total number of voices evicted for a higher priority request",
		}),
		reclaimed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audmux_reclaimed_total",
				Help: "Total number of slots reclaimed by reason",
			},
			[]string{"kind", "reason"},
		),
	}

	m.collectors = []prometheus.Collector{
		m.activeVoices,
		m.activeStreams,
		m.plays,
		m.evictions,
		m.reclaimed,
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}

	return m, nil
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// The recorders below accept a nil receiver so the engine can run without
// metrics.

func (m *Metrics) recordPlay(kind Kind, result string) {
	if m == nil {
		return
	}
	m.plays.WithLabelValues(kind.String(), result).Inc()
}

func (m *Metrics) recordEviction() {
	if m == nil {
		return
	}
	m.evictions.Inc()
}

func (m *Metrics) recordReclaim(kind Kind, reason string) {
	if m == nil {
		return
	}
	m.reclaimed.WithLabelValues(kind.String(), reason).Inc()
}

func (m *Metrics) setActive(voices, streams int) {
	if m == nil {
		return
	}
	m.activeVoices.Set(float64(voices))
	m.activeStreams.Set(float64(streams))
}
