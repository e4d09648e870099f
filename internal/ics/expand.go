package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	appLog "sydevents/internal/log"
)

const defaultMaxOccurrencesPerEvent = 100

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// RangeStart / RangeEnd define the inclusive window for occurrences.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway rules. Zero means the default.
	MaxOccurrencesPerEvent int
}

// Occurrence is a single concrete instance of a feed event after
// recurrence expansion.
type Occurrence struct {
	UID string
	// InstanceKey distinguishes instances of a recurring event; it is the
	// RFC3339 start time.
	InstanceKey string

	Summary     string
	Description string
	Location    string
	URL         string

	Start  time.Time
	End    time.Time
	AllDay bool
}

// Expand turns parsed feed events into concrete occurrences within the
// configured window. Non-recurring events yield at most one occurrence;
// RRULE events are expanded with EXDATEs removed.
func Expand(events []ParsedEvent, cfg ExpandConfig) []Occurrence {
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	out := make([]Occurrence, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" {
			if overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
				out = append(out, makeOccurrence(ev, ev.Start, ev.End))
			}
			continue
		}
		out = append(out, expandRecurring(ev, cfg)...)
	}
	return out
}

func expandRecurring(ev ParsedEvent, cfg ExpandConfig) []Occurrence {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("ics: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())

	occTimes := set.Between(rangeStart, rangeEnd, true)
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		appLog.Warn("ics: truncated occurrences", "uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
	}

	dur := ev.End.Sub(ev.Start)
	out := make([]Occurrence, 0, len(occTimes))
	for _, start := range occTimes {
		end := start.Add(dur)
		if ev.AllDay {
			day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			start = day
			end = day.Add(24 * time.Hour)
		}
		out = append(out, makeOccurrence(ev, start, end))
	}
	return out
}

func makeOccurrence(ev ParsedEvent, start, end time.Time) Occurrence {
	return Occurrence{
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339),
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		URL:         ev.URL,
		Start:       start,
		End:         end,
		AllDay:      ev.AllDay,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.IsZero() {
		aEnd = aStart
	}
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}
