package ics

import (
	"testing"
	"time"
)

func TestExpandNonRecurring(t *testing.T) {
	ev := ParsedEvent{
		UID:     "one-off",
		Summary: "One Off",
		Start:   time.Date(2027, time.March, 10, 18, 0, 0, 0, time.UTC),
		End:     time.Date(2027, time.March, 10, 22, 0, 0, 0, time.UTC),
	}
	cfg := ExpandConfig{
		RangeStart: time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC),
	}

	occs := Expand([]ParsedEvent{ev}, cfg)
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if occs[0].InstanceKey != "2027-03-10T18:00:00Z" {
		t.Fatalf("instance key = %q", occs[0].InstanceKey)
	}

	// Outside the window it disappears.
	cfg.RangeStart = time.Date(2027, time.May, 1, 0, 0, 0, 0, time.UTC)
	cfg.RangeEnd = time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	if occs := Expand([]ParsedEvent{ev}, cfg); len(occs) != 0 {
		t.Fatalf("event outside window expanded: %+v", occs)
	}
}

func TestExpandRecurringWithExDate(t *testing.T) {
	ev := ParsedEvent{
		UID:      "weekly",
		Summary:  "Sunrise Yoga",
		Start:    time.Date(2027, time.March, 1, 7, 0, 0, 0, time.UTC),
		End:      time.Date(2027, time.March, 1, 8, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=WEEKLY;COUNT=4",
		ExDates:  []time.Time{time.Date(2027, time.March, 15, 7, 0, 0, 0, time.UTC)},
	}
	cfg := ExpandConfig{
		RangeStart: time.Date(2027, time.February, 25, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2027, time.April, 25, 0, 0, 0, 0, time.UTC),
	}

	occs := Expand([]ParsedEvent{ev}, cfg)
	if len(occs) != 3 {
		t.Fatalf("got %d occurrences, want 3 (4 weekly minus 1 exdate)", len(occs))
	}
	for _, occ := range occs {
		if occ.Start.Day() == 15 {
			t.Fatalf("exdate instance survived: %+v", occ)
		}
		if !occ.End.Equal(occ.Start.Add(time.Hour)) {
			t.Fatalf("duration not carried: %+v", occ)
		}
	}
	// Instance keys must differ per occurrence.
	if occs[0].InstanceKey == occs[1].InstanceKey {
		t.Fatalf("instance keys collide: %q", occs[0].InstanceKey)
	}
}

func TestExpandWindowBoundsRecurrence(t *testing.T) {
	ev := ParsedEvent{
		UID:      "daily",
		Summary:  "Daily Walk",
		Start:    time.Date(2027, time.March, 1, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2027, time.March, 1, 10, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=DAILY",
	}
	cfg := ExpandConfig{
		RangeStart: time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2027, time.March, 12, 23, 59, 59, 0, time.UTC),
	}

	occs := Expand([]ParsedEvent{ev}, cfg)
	if len(occs) != 3 {
		t.Fatalf("got %d occurrences, want the 3 inside the window", len(occs))
	}
	for _, occ := range occs {
		if occ.Start.Before(cfg.RangeStart) || occ.Start.After(cfg.RangeEnd) {
			t.Fatalf("occurrence outside window: %v", occ.Start)
		}
	}
}

func TestExpandCapsRunawayRules(t *testing.T) {
	ev := ParsedEvent{
		UID:      "runaway",
		Summary:  "Hourly Thing",
		Start:    time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2027, time.March, 1, 1, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=HOURLY",
	}
	cfg := ExpandConfig{
		RangeStart:             time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:               time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC),
		MaxOccurrencesPerEvent: 5,
	}

	occs := Expand([]ParsedEvent{ev}, cfg)
	if len(occs) != 5 {
		t.Fatalf("cap not applied: got %d", len(occs))
	}
}

func TestExpandBadRRuleSkipsEvent(t *testing.T) {
	ev := ParsedEvent{
		UID:      "broken",
		Start:    time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=SOMETIMES",
	}
	cfg := ExpandConfig{
		RangeStart: time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2028, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if occs := Expand([]ParsedEvent{ev}, cfg); len(occs) != 0 {
		t.Fatalf("broken rule expanded: %+v", occs)
	}
}
