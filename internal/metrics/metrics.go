// Package metrics adapts the executor's event stream into Prometheus metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jzx17/rendezvous/pkg/types"
)

// Collector accumulates run and task metrics from observability events
type Collector struct {
	registry *prometheus.Registry

	tasksCompleted prometheus.Counter
	tasksFailed    prometheus.Counter
	runsCompleted  prometheus.Counter
	runsFailed     prometheus.Counter

	combinedResult prometheus.Gauge
	contributors   prometheus.Histogram
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rendezvous_tasks_completed_total",
			Help: "Total number of tasks that produced a partial result",
		}),
		tasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rendezvous_tasks_failed_total",
			Help: "Total number of tasks that degraded to the fallback contribution",
		}),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rendezvous_runs_completed_total",
			Help: "Total number of runs that reported a combined result",
		}),
		runsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rendezvous_runs_failed_total",
			Help: "Total number of runs that failed with a broken barrier",
		}),
		combinedResult: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rendezvous_combined_result",
			Help: "Combined result of the most recent successful run",
		}),
		contributors: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rendezvous_aggregation_contributors",
			Help:    "Number of partial results per aggregation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	c.registry.MustRegister(
		c.tasksCompleted,
		c.tasksFailed,
		c.runsCompleted,
		c.runsFailed,
		c.combinedResult,
		c.contributors,
	)

	return c
}

// Sink returns an event sink feeding this collector
func (c *Collector) Sink() types.EventSink {
	return func(e types.Event) {
		switch ev := e.(type) {
		case types.TaskCompleted:
			c.tasksCompleted.Inc()
		case types.TaskFailed:
			c.tasksFailed.Inc()
		case types.BarrierAggregated:
			c.contributors.Observe(float64(ev.Contributors))
		case types.RunCompleted:
			c.runsCompleted.Inc()
			c.combinedResult.Set(ev.Combined)
		case types.RunFailed:
			c.runsFailed.Inc()
		}
	}
}

// Handler returns the HTTP handler exposing the collected metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
