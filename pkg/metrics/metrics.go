// Package metrics defines the Prometheus instruments recorded during a run.
//
// Instruments are registered on a caller supplied registry so that tests and
// repeated runs never collide on the global one. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "polyfinder"

// Stage labels for ListSize.
const (
	StageEnumerated = "enumerated"
	StageMerged     = "merged"
	StageFinal      = "final"
)

// Metrics holds the counters, gauges and histograms of a run.
type Metrics struct {
	// Leaves counts enumeration leaves visited.
	Leaves prometheus.Counter

	// WeightHits counts leaves whose table weight matched the target class.
	WeightHits prometheus.Counter

	// Inserted counts candidates added to a representative list.
	Inserted prometheus.Counter

	// Duplicates counts candidates rejected as equivalent to a listed entry.
	Duplicates prometheus.Counter

	// MinimizerRuns counts QuickSimplify invocations.
	MinimizerRuns prometheus.Counter

	// ListSize is the representative list length after each stage.
	// Labels: stage (enumerated, merged, final)
	ListSize *prometheus.GaugeVec

	// PassDuration measures one reducer pass over a list.
	PassDuration prometheus.Histogram
}

// New creates the instruments and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Leaves: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumerate",
			Name:      "leaves_total",
			Help:      "Enumeration leaves visited",
		}),
		WeightHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumerate",
			Name:      "weight_hits_total",
			Help:      "Leaves whose truth table weight matched the target or its complement",
		}),
		Inserted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumerate",
			Name:      "inserted_total",
			Help:      "Candidates added to a representative list",
		}),
		Duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumerate",
			Name:      "duplicates_total",
			Help:      "Candidates rejected as equivalent to a listed entry",
		}),
		MinimizerRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "minimize",
			Name:      "runs_total",
			Help:      "Local search invocations",
		}),
		ListSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reduce",
			Name:      "list_size",
			Help:      "Representative list length after each stage",
		}, []string{"stage"}),
		PassDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reduce",
			Name:      "pass_duration_seconds",
			Help:      "Duration of one minimize and deduplicate pass",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// RecordEnumeration adds the totals of one enumeration.
func (m *Metrics) RecordEnumeration(leaves, hits, inserted, duplicates int) {
	if m == nil {
		return
	}
	m.Leaves.Add(float64(leaves))
	m.WeightHits.Add(float64(hits))
	m.Inserted.Add(float64(inserted))
	m.Duplicates.Add(float64(duplicates))
}

// RecordMinimizerRuns adds n local search invocations.
func (m *Metrics) RecordMinimizerRuns(n int) {
	if m == nil {
		return
	}
	m.MinimizerRuns.Add(float64(n))
}

// SetListSize records the list length after stage.
func (m *Metrics) SetListSize(stage string, n int) {
	if m == nil {
		return
	}
	m.ListSize.WithLabelValues(stage).Set(float64(n))
}

// ObservePass records the duration of one reducer pass.
func (m *Metrics) ObservePass(d time.Duration) {
	if m == nil {
		return
	}
	m.PassDuration.Observe(d.Seconds())
}

// WriteFile writes every metric gathered by g to path in the text
// exposition format.
func WriteFile(g prometheus.Gatherer, path string) error {
	return prometheus.WriteToTextfile(path, g)
}
