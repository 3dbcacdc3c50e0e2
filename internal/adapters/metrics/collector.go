// Package metrics exports the bot's operational counters to Prometheus.
// The collector implements the session layer's Metrics interface, so the
// orchestrator never imports prometheus directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "rotable"
	subsystem = "session"
)

// Collector records per-round observations.
type Collector struct {
	round             prometheus.Gauge
	totalCost         prometheus.Gauge
	roundCost         prometheus.Histogram
	penaltiesTotal    prometheus.Counter
	anomalies         prometheus.Gauge
	optimizerDuration prometheus.Histogram
	generations       prometheus.Histogram
	deadlineHits      prometheus.Counter
}

// NewCollector creates the collector and registers it on the given registry.
// A nil registry falls back to the prometheus default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		round: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "round",
			Help:      "Current game round (hour).",
		}),
		totalCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "total_cost",
			Help:      "Cumulative session cost as reported by the server.",
		}),
		roundCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "round_cost",
			Help:      "Per-round cost delta distribution.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 10),
		}),
		penaltiesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "penalties_total",
			Help:      "Total number of server-issued penalties.",
		}),
		anomalies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "anomalies",
			Help:      "Number of mirror anomalies recorded this session.",
		}),
		optimizerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "duration_seconds",
			Help:      "Optimizer wall-clock time per round.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 1.5, 2.0, 3.0, 5.0},
		}),
		generations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "generations",
			Help:      "Generations evolved per round.",
			Buckets:   []float64{1, 5, 10, 20, 40, 80, 160},
		}),
		deadlineHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "deadline_hits_total",
			Help:      "Rounds on which the optimizer deadline fired.",
		}),
	}
	reg.MustRegister(
		c.round, c.totalCost, c.roundCost, c.penaltiesTotal, c.anomalies,
		c.optimizerDuration, c.generations, c.deadlineHits,
	)
	return c
}

// ObserveRound records one round's cost and penalty outcome.
func (c *Collector) ObserveRound(round int, roundCost, totalCost float64, penalties int) {
	c.round.Set(float64(round))
	c.totalCost.Set(totalCost)
	if roundCost >= 0 {
		c.roundCost.Observe(roundCost)
	}
	c.penaltiesTotal.Add(float64(penalties))
}

// ObserveOptimizer records one optimizer run.
func (c *Collector) ObserveOptimizer(seconds float64, generations int, deadlineHit bool) {
	c.optimizerDuration.Observe(seconds)
	c.generations.Observe(float64(generations))
	if deadlineHit {
		c.deadlineHits.Inc()
	}
}

// ObserveAnomalies records the mirror's anomaly count.
func (c *Collector) ObserveAnomalies(count int) {
	c.anomalies.Set(float64(count))
}
