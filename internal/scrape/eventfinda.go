package scrape

import (
	"sydevents/internal/config"
	"sydevents/internal/model"
)

// newEventfindaSource harvests the Eventfinda Sydney listing.
func newEventfindaSource(c config.SourceConfig, opts Options) *staticSource {
	return &staticSource{
		name:      model.SourceEventfinda,
		url:       c.URL,
		maxItems:  c.MaxItems,
		timeout:   fetchTimeout,
		userAgent: opts.UserAgent,
		sel: staticSelectors{
			item:     `.event-item, .event-card, [class*="event"]`,
			title:    `h3, h2, .event-title, [class*="title"]`,
			date:     `.date, [class*="date"], time`,
			location: `.venue, [class*="venue"], [class*="location"]`,
		},
	}
}
