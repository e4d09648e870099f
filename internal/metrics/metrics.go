package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsScraped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sydevents_events_scraped_total",
		Help: "Total raw events extracted, labelled by source.",
	}, []string{"source"})

	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sydevents_source_failures_total",
		Help: "Total adapter fetch failures, labelled by source.",
	}, []string{"source"})

	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sydevents_events_created_total",
		Help: "Total event records inserted by harvest runs.",
	})

	EventsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sydevents_events_updated_total",
		Help: "Total event records updated in place by harvest runs.",
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sydevents_persist_failures_total",
		Help: "Total per-record persistence failures skipped by the upserter.",
	})

	HarvestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sydevents_harvest_runs_total",
		Help: "Total harvest runs, labelled by outcome.",
	}, []string{"status"})

	HarvestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sydevents_harvest_duration_seconds",
		Help:    "End-to-end harvest run duration in seconds.",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
	})

	LastRunUnique = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sydevents_last_run_unique_events",
		Help: "Unique events produced by the most recent harvest run.",
	})
)
