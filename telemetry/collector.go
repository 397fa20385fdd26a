// SPDX-License-Identifier: MIT

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "mcarnoldi"

const (
	labelPhase    = "phase"
	phaseActive   = "active"
	phaseInactive = "inactive"
)

// Collector holds the solver metrics.
type Collector struct {
	// Restart is the index of the last completed restart.
	Restart prometheus.Gauge
	// Residual is the residual estimate of the last completed restart.
	Residual prometheus.Gauge
	// Dominant is the dominant Ritz value. Labels: part (real, imag).
	Dominant *prometheus.GaugeVec
	// Budget is the sample budget of the last Arnoldi step.
	Budget prometheus.Gauge
	// RestartsTotal counts completed restarts. Labels: phase.
	RestartsTotal *prometheus.CounterVec
	// HistoriesTotal counts histories spent. Labels: phase.
	HistoriesTotal *prometheus.CounterVec
	// IterationResidual is the distribution of per-step residual estimates.
	IterationResidual prometheus.Histogram
}

// NewCollector builds unregistered metrics; an empty namespace means DefaultNamespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Collector{
		Restart: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "restart",
			Help: "Index of the last completed restart.",
		}),
		Residual: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "residual",
			Help: "Residual estimate of the dominant Ritz pair at the last restart.",
		}),
		Dominant: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dominant_eigenvalue",
			Help: "Dominant Ritz value at the last restart.",
		}, []string{"part"}),
		Budget: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sample_budget",
			Help: "Histories spent by the last operator application.",
		}),
		RestartsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "restarts_total",
			Help: "Completed restarts by phase.",
		}, []string{labelPhase}),
		HistoriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "histories_total",
			Help: "Histories spent by phase.",
		}, []string{labelPhase}),
		IterationResidual: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "iteration_residual",
			Help:    "Residual estimates after every Arnoldi step.",
			Buckets: prometheus.ExponentialBuckets(1e-12, 10, 13),
		}),
	}
}

func (c *Collector) metrics() []prometheus.Collector {
	return []prometheus.Collector{
		c.Restart, c.Residual, c.Dominant, c.Budget,
		c.RestartsTotal, c.HistoriesTotal, c.IterationResidual,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics() {
		m.Collect(ch)
	}
}

// ObserveRestart implements arnoldi.Observer.
func (c *Collector) ObserveRestart(rep arnoldi.RestartReport) {
	phase := phaseOf(rep.Active)
	c.Restart.Set(float64(rep.Restart))
	c.Residual.Set(rep.Residual)
	dom, _ := rep.Dominant()
	c.Dominant.WithLabelValues("real").Set(real(dom))
	c.Dominant.WithLabelValues("imag").Set(imag(dom))
	c.RestartsTotal.WithLabelValues(phase).Inc()
	c.HistoriesTotal.WithLabelValues(phase).Add(float64(rep.Histories))
}

// ObserveIteration implements arnoldi.IterationObserver.
func (c *Collector) ObserveIteration(rep arnoldi.IterationReport) {
	c.Budget.Set(float64(rep.Budget))
	c.IterationResidual.Observe(rep.Residual)
}

func phaseOf(active bool) string {
	if active {
		return phaseActive
	}

	return phaseInactive
}

var (
	_ prometheus.Collector      = (*Collector)(nil)
	_ arnoldi.Observer          = (*Collector)(nil)
	_ arnoldi.IterationObserver = (*Collector)(nil)
)
