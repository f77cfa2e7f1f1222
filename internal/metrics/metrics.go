// Package metrics exposes engine health as Prometheus metrics and serves
// them, together with pprof, on a localhost-only debug router.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bubble-pop/internal/game"
)

// JournalStats reports event journal counters.
type JournalStats interface {
	GetTotalCount() uint64
	GetDroppedCount() uint64
}

// Metrics implements game.Observer. Label values are bounded: entity kinds
// and pop results only.
type Metrics struct {
	registry *prometheus.Registry

	frameDuration   prometheus.Histogram
	entities        *prometheus.GaugeVec
	pops            *prometheus.CounterVec
	renderRecovered *prometheus.CounterVec
}

// New registers the game metrics on a fresh registry. journal may be nil.
func New(journal JournalStats) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bubblepop_frame_duration_seconds",
			Help:    "Time spent advancing and drawing one frame",
			Buckets: []float64{0.001, 0.002, 0.005, 0.008, 0.016, 0.033, 0.05, 0.1},
		}),
		entities: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bubblepop_entities",
			Help: "Live entities by kind",
		}, []string{"kind"}), // sphere, particle, character, spirit
		pops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bubblepop_pops_total",
			Help: "Spheres popped by result",
		}, []string{"result"}), // target, miss
		renderRecovered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bubblepop_render_recovered_total",
			Help: "Entity draw calls that panicked and were skipped",
		}, []string{"kind"}),
	}

	if journal != nil {
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "bubblepop_event_log_total",
			Help: "Total events journaled",
		}, func() float64 { return float64(journal.GetTotalCount()) })
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "bubblepop_event_log_dropped_total",
			Help: "Events dropped due to rate limiting or buffer full",
		}, func() float64 { return float64(journal.GetDroppedCount()) })
	}
	return m
}

// Registry returns the registry, for callers adding their own collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// FrameRendered records frame timing and entity counts.
func (m *Metrics) FrameRendered(d time.Duration, c game.Counts) {
	m.frameDuration.Observe(d.Seconds())
	m.entities.WithLabelValues("sphere").Set(float64(c.Spheres))
	m.entities.WithLabelValues("particle").Set(float64(c.Particles))
	m.entities.WithLabelValues("character").Set(float64(c.Characters))
	m.entities.WithLabelValues("spirit").Set(float64(c.Spirits))
}

// SpherePopped counts a pop.
func (m *Metrics) SpherePopped(target bool) {
	result := "miss"
	if target {
		result = "target"
	}
	m.pops.WithLabelValues(result).Inc()
}

// RenderRecovered counts a skipped draw.
func (m *Metrics) RenderRecovered(kind string) {
	m.renderRecovered.WithLabelValues(kind).Inc()
}
