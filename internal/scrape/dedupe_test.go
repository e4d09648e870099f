package scrape

import (
	"strings"
	"testing"

	"sydevents/internal/model"
)

func TestDedupeCollapsesPunctuationAndCase(t *testing.T) {
	events := []model.Event{
		{Title: "Sydney Food Festival!!", Source: model.SourceEventbrite},
		{Title: "sydney food festival", Source: model.SourceTimeout},
		{Title: "Sydney  FOOD   Festival", Source: model.SourceEventfinda},
		{Title: "Vivid Sydney", Source: model.SourceSydneyCom},
	}

	out := Dedupe(events)
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(out), out)
	}
	// First occurrence wins.
	if out[0].Title != "Sydney Food Festival!!" || out[0].Source != model.SourceEventbrite {
		t.Fatalf("wrong survivor: %+v", out[0])
	}
	if out[1].Title != "Vivid Sydney" {
		t.Fatalf("unrelated event dropped: %+v", out)
	}
}

func TestDedupeKeyPrefix(t *testing.T) {
	base := strings.Repeat("a", dedupeKeyLen)
	a := model.Event{Title: base + " completely different ending one"}
	b := model.Event{Title: base + " another ending entirely"}

	out := Dedupe([]model.Event{a, b})
	if len(out) != 1 {
		t.Fatalf("titles sharing a %d-char key should collapse, got %d", dedupeKeyLen, len(out))
	}
}

func TestDedupeKeyNormalization(t *testing.T) {
	if got := dedupeKey("  Jazz-Night @ 2026! "); got != "jazznight2026" {
		t.Fatalf("dedupeKey = %q", got)
	}
	if got := dedupeKey(""); got != "" {
		t.Fatalf("dedupeKey(empty) = %q", got)
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	events := []model.Event{
		{Title: "Alpha"},
		{Title: "Beta"},
		{Title: "alpha"},
		{Title: "Gamma"},
	}
	out := Dedupe(events)
	want := []string{"Alpha", "Beta", "Gamma"}
	if len(out) != len(want) {
		t.Fatalf("got %d events, want %d", len(out), len(want))
	}
	for i, w := range want {
		if out[i].Title != w {
			t.Fatalf("out[%d].Title = %q, want %q", i, out[i].Title, w)
		}
	}
}
