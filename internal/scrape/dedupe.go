package scrape

import (
	"strings"

	"sydevents/internal/model"
)

const dedupeKeyLen = 50

// Dedupe collapses near-duplicate events by normalized title, preserving
// order; the first occurrence wins. The key is independent of ExternalID:
// two sources reporting the same real-world event collide here even
// though they upsert under different identities.
func Dedupe(events []model.Event) []model.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		key := dedupeKey(ev.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	return out
}

// dedupeKey lower-cases the title, strips everything non-alphanumeric,
// and keeps the first 50 characters. Deliberately coarse; see the module
// docs before "improving" it.
func dedupeKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= dedupeKeyLen {
				break
			}
		}
	}
	return b.String()
}
