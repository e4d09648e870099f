package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	appLog "sydevents/internal/log"
	"sydevents/internal/metrics"
	"sydevents/internal/model"
	"sydevents/internal/store"
)

// Harvester composes the pipeline: concurrent source fan-out, seed
// fallback, normalization, dedup, and idempotent persistence. A harvester
// holds no state that survives a run; each Run is a function of its
// source set and store.
type Harvester struct {
	sources []Source
	store   store.EventStore
	now     func() time.Time
}

// NewHarvester builds a harvester over the given sources and store.
func NewHarvester(sources []Source, st store.EventStore) *Harvester {
	return &Harvester{sources: sources, store: st, now: time.Now}
}

type sourceResult struct {
	source model.Source
	raws   []model.RawEvent
	err    error
}

// Run executes one harvest and returns its summary. It never panics past
// this boundary: the scheduler invoking it runs unattended, so any
// orchestration failure is folded into a failed summary instead.
func (h *Harvester) Run(ctx context.Context) (summary model.HarvestSummary) {
	wallStart := time.Now()
	summary.RunID = uuid.NewString()
	summary.StartedAt = h.now()
	summary.Success = true

	defer func() {
		if r := recover(); r != nil {
			summary.Success = false
			summary.Error = fmt.Sprintf("harvest run: %v", r)
			appLog.Error("harvest run panicked", fmt.Errorf("%v", r), "run_id", summary.RunID)
		}
		summary.Duration = time.Since(wallStart)

		status := "success"
		if !summary.Success {
			status = "failure"
		}
		metrics.HarvestRuns.WithLabelValues(status).Inc()
		metrics.HarvestDuration.Observe(summary.Duration.Seconds())
		metrics.LastRunUnique.Set(float64(summary.Unique))
		metrics.EventsCreated.Add(float64(summary.Created))
		metrics.EventsUpdated.Add(float64(summary.Updated))
		metrics.PersistFailures.Add(float64(summary.Failed))
	}()

	appLog.Info("harvest run starting", "run_id", summary.RunID, "sources", len(h.sources))

	results := h.collect(ctx)

	raws := make([]model.RawEvent, 0)
	for _, res := range results {
		yield := model.SourceYield{Source: res.source, Count: len(res.raws)}
		if res.err != nil {
			yield.Count = 0
			yield.Err = res.err.Error()
			metrics.SourceFailures.WithLabelValues(string(res.source)).Inc()
			appLog.Error("source yielded nothing", res.err, "source", res.source)
		} else {
			raws = append(raws, res.raws...)
			metrics.EventsScraped.WithLabelValues(string(res.source)).Add(float64(len(res.raws)))
		}
		summary.Sources = append(summary.Sources, yield)
	}
	summary.Scraped = len(raws)

	var events []model.Event
	if len(raws) == 0 {
		// Seeds are authored canonical records; they skip normalization.
		summary.Seeded = true
		events = SeedEvents(h.now())
		appLog.Warn("no events scraped from live sources, using seed set", "run_id", summary.RunID)
	} else {
		events = make([]model.Event, 0, len(raws))
		for _, raw := range raws {
			events = append(events, Normalize(raw, h.now()))
		}
	}

	events = Dedupe(events)
	summary.Unique = len(events)

	res := Persist(ctx, h.store, events)
	summary.Created = res.Created
	summary.Updated = res.Updated
	summary.Failed = res.Failed

	appLog.Info("harvest run complete",
		"run_id", summary.RunID,
		"scraped", summary.Scraped,
		"unique", summary.Unique,
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", summary.Failed,
		"seeded", summary.Seeded,
	)
	return summary
}

// collect fans the adapters out concurrently and waits for every one to
// settle. A panicking adapter is contained here as a second line of
// defense and recorded as that source's error.
func (h *Harvester) collect(ctx context.Context) []sourceResult {
	results := make([]sourceResult, len(h.sources))
	var wg sync.WaitGroup
	for i, src := range h.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i].source = src.Name()
			defer func() {
				if r := recover(); r != nil {
					results[i].raws = nil
					results[i].err = fmt.Errorf("adapter panic: %v", r)
				}
			}()
			raws, err := src.Fetch(ctx)
			results[i].raws = raws
			results[i].err = err
		}(i, src)
	}
	wg.Wait()
	return results
}
