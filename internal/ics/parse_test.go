package ics

import (
	"testing"
	"time"
)

const sampleFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//City Events//Feed//EN
BEGIN:VEVENT
UID:night-market@whatson.example
SUMMARY:Night Noodle Markets
DESCRIPTION:Hawker-style stalls in the park.
LOCATION:Hyde Park
URL:https://whatson.example/night-noodle-markets
DTSTART:20270310T180000Z
DTEND:20270310T220000Z
END:VEVENT
BEGIN:VEVENT
UID:weekly-yoga@whatson.example
SUMMARY:Sunrise Yoga
DTSTART:20270301T070000Z
DTEND:20270301T080000Z
RRULE:FREQ=WEEKLY;COUNT=10
EXDATE:20270315T070000Z
END:VEVENT
BEGIN:VEVENT
UID:open-day@whatson.example
SUMMARY:Gallery Open Day
DTSTART;VALUE=DATE:20270320
DTEND;VALUE=DATE:20270321
END:VEVENT
BEGIN:VEVENT
SUMMARY:No UID Here
DTSTART:20270401T100000Z
END:VEVENT
END:VCALENDAR
`

func TestParseFeed(t *testing.T) {
	events, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3 (UID-less entry skipped)", len(events))
	}

	market := events[0]
	if market.UID != "night-market@whatson.example" {
		t.Fatalf("uid = %q", market.UID)
	}
	if market.Summary != "Night Noodle Markets" || market.Location != "Hyde Park" {
		t.Fatalf("fields: %+v", market)
	}
	if market.URL != "https://whatson.example/night-noodle-markets" {
		t.Fatalf("url = %q", market.URL)
	}
	wantStart := time.Date(2027, time.March, 10, 18, 0, 0, 0, time.UTC)
	if !market.Start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", market.Start, wantStart)
	}
	if market.AllDay || market.RawRRule != "" {
		t.Fatalf("one-off timed event misclassified: %+v", market)
	}

	yoga := events[1]
	if yoga.RawRRule != "FREQ=WEEKLY;COUNT=10" {
		t.Fatalf("rrule = %q", yoga.RawRRule)
	}
	if len(yoga.ExDates) != 1 || !yoga.ExDates[0].Equal(time.Date(2027, time.March, 15, 7, 0, 0, 0, time.UTC)) {
		t.Fatalf("exdates = %v", yoga.ExDates)
	}

	openDay := events[2]
	if !openDay.AllDay {
		t.Fatalf("VALUE=DATE event not flagged all-day: %+v", openDay)
	}
}

func TestParseRejectsEmptyBody(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestParseICalTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"20270310T180000Z", time.Date(2027, time.March, 10, 18, 0, 0, 0, time.UTC)},
		{"20270310T180000", time.Date(2027, time.March, 10, 18, 0, 0, 0, time.UTC)},
		{"20270310", time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseICalTime(tc.in)
		if err != nil {
			t.Fatalf("parseICalTime(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parseICalTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := parseICalTime("next tuesday"); err == nil {
		t.Fatal("expected error for junk input")
	}
}
