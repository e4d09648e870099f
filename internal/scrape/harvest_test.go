package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"sydevents/internal/model"
	"sydevents/internal/store"
)

// fakeSource yields a fixed result, an error, or a panic.
type fakeSource struct {
	name  model.Source
	raws  []model.RawEvent
	err   error
	panic bool
}

func (f *fakeSource) Name() model.Source { return f.name }

func (f *fakeSource) Fetch(context.Context) ([]model.RawEvent, error) {
	if f.panic {
		panic("selector engine exploded")
	}
	return f.raws, f.err
}

func rawFixture(source model.Source, title, slug string) model.RawEvent {
	return model.RawEvent{
		Title:      title,
		SourceURL:  "https://example.com/events/" + slug,
		DateText:   "2027-03-15T19:00:00Z",
		Source:     source,
		ExternalID: slug,
	}
}

func TestHarvestRunHappyPath(t *testing.T) {
	st := store.NewMemoryStore()
	h := NewHarvester([]Source{
		&fakeSource{name: model.SourceEventbrite, raws: []model.RawEvent{
			rawFixture(model.SourceEventbrite, "Jazz Night at the Opera House!!", "jazz-night"),
			rawFixture(model.SourceEventbrite, "Harbour Lights Cruise", "harbour-lights"),
		}},
		&fakeSource{name: model.SourceTimeout, raws: []model.RawEvent{
			rawFixture(model.SourceTimeout, "jazz night at the opera house", "jazz-night-timeout"),
		}},
	}, st)

	summary := h.Run(context.Background())

	if !summary.Success {
		t.Fatalf("run failed: %s", summary.Error)
	}
	if summary.Scraped != 3 {
		t.Fatalf("scraped = %d, want 3", summary.Scraped)
	}
	if summary.Unique != 2 {
		t.Fatalf("unique = %d, want 2 after title dedup", summary.Unique)
	}
	if summary.Created != 2 || summary.Updated != 0 || summary.Failed != 0 {
		t.Fatalf("persist counts: %+v", summary)
	}
	if summary.Seeded {
		t.Fatal("seeded despite live yield")
	}
	if summary.RunID == "" || summary.Duration <= 0 {
		t.Fatalf("summary missing run metadata: %+v", summary)
	}

	// The eventbrite copy of the duplicate won; the timeout copy never
	// reached the store.
	winner, err := st.FindByExternalID(context.Background(), "eventbrite_jazz-night")
	if err != nil {
		t.Fatalf("winner missing: %v", err)
	}
	if winner.Source != model.SourceEventbrite {
		t.Fatalf("winner source = %q", winner.Source)
	}
	if want := time.Date(2027, time.March, 15, 19, 0, 0, 0, time.UTC); !winner.Date.Equal(want) {
		t.Fatalf("winner date = %v, want the first adapter's resolved text %v", winner.Date, want)
	}
	if _, err := st.FindByExternalID(context.Background(), "timeout_jazz-night-timeout"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("loser persisted: %v", err)
	}
}

func TestHarvestRunSecondPassUpdates(t *testing.T) {
	st := store.NewMemoryStore()
	sources := []Source{
		&fakeSource{name: model.SourceEventbrite, raws: []model.RawEvent{
			rawFixture(model.SourceEventbrite, "Jazz Night", "jazz-night"),
		}},
	}

	h := NewHarvester(sources, st)
	first := h.Run(context.Background())
	second := h.Run(context.Background())

	if first.Created != 1 {
		t.Fatalf("first run: %+v", first)
	}
	if second.Created != 0 || second.Updated != 1 {
		t.Fatalf("second run should update in place: %+v", second)
	}
	n, _ := st.CountActive(context.Background())
	if n != 1 {
		t.Fatalf("record count = %d after re-harvest, want 1", n)
	}
}

func TestHarvestRunContainsBrokenSources(t *testing.T) {
	st := store.NewMemoryStore()
	h := NewHarvester([]Source{
		&fakeSource{name: model.SourceEventbrite, err: errors.New("navigation timeout")},
		&fakeSource{name: model.SourceTimeout, panic: true},
		&fakeSource{name: model.SourceEventfinda, raws: []model.RawEvent{
			rawFixture(model.SourceEventfinda, "Survivor Gig", "survivor"),
		}},
	}, st)

	summary := h.Run(context.Background())

	if !summary.Success {
		t.Fatalf("one broken source must not fail the run: %s", summary.Error)
	}
	if summary.Scraped != 1 || summary.Created != 1 {
		t.Fatalf("healthy source should still land: %+v", summary)
	}
	if len(summary.Sources) != 3 {
		t.Fatalf("yields = %d, want one per source", len(summary.Sources))
	}
	for _, y := range summary.Sources {
		switch y.Source {
		case model.SourceEventbrite, model.SourceTimeout:
			if y.Count != 0 || y.Err == "" {
				t.Fatalf("broken source yield: %+v", y)
			}
		case model.SourceEventfinda:
			if y.Count != 1 || y.Err != "" {
				t.Fatalf("healthy source yield: %+v", y)
			}
		}
	}
}

func TestHarvestRunSeedsOnTotalFailure(t *testing.T) {
	st := store.NewMemoryStore()
	h := NewHarvester([]Source{
		&fakeSource{name: model.SourceEventbrite, err: errors.New("down")},
		&fakeSource{name: model.SourceTimeout, raws: nil},
	}, st)

	summary := h.Run(context.Background())

	if !summary.Success {
		t.Fatalf("seed run failed: %s", summary.Error)
	}
	if !summary.Seeded {
		t.Fatal("expected seed fallback")
	}
	want := len(SeedEvents(summary.StartedAt))
	if summary.Created != want {
		t.Fatalf("created = %d, want the full seed set of %d", summary.Created, want)
	}

	// Seeds upsert like anything else: a second barren run changes nothing.
	again := h.Run(context.Background())
	if again.Created != 0 || again.Updated != want {
		t.Fatalf("second seed run: %+v", again)
	}
	n, _ := st.CountActive(context.Background())
	if int(n) != want {
		t.Fatalf("record count = %d, want %d", n, want)
	}
}

func TestHarvestRunNeverPanics(t *testing.T) {
	// A store whose every call panics exercises the outer recover.
	h := NewHarvester([]Source{
		&fakeSource{name: model.SourceEventbrite, raws: []model.RawEvent{
			rawFixture(model.SourceEventbrite, "Boom", "boom"),
		}},
	}, panicStore{})

	summary := h.Run(context.Background())
	if summary.Success {
		t.Fatal("orchestration failure must yield a failed summary")
	}
	if summary.Error == "" {
		t.Fatal("failed summary carries no error")
	}
}

type panicStore struct{}

func (panicStore) FindByExternalID(context.Context, string) (model.Event, error) {
	panic("store offline")
}
func (panicStore) FindByID(context.Context, string) (model.Event, error) { panic("store offline") }
func (panicStore) Insert(context.Context, model.Event) (model.Event, error) {
	panic("store offline")
}
func (panicStore) UpdateByID(context.Context, string, model.Event) (model.Event, error) {
	panic("store offline")
}
func (panicStore) Delete(context.Context, string) error { panic("store offline") }
func (panicStore) List(context.Context, store.ListOptions) ([]model.Event, error) {
	panic("store offline")
}
func (panicStore) CountActive(context.Context) (int64, error) { panic("store offline") }
