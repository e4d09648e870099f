package scrape

import (
	"sydevents/internal/config"
	"sydevents/internal/model"
)

// newTimeoutSource harvests the TimeOut Sydney what's-on page.
func newTimeoutSource(c config.SourceConfig, opts Options) *staticSource {
	return &staticSource{
		name:      model.SourceTimeout,
		url:       c.URL,
		maxItems:  c.MaxItems,
		timeout:   fetchTimeout,
		userAgent: opts.UserAgent,
		sel: staticSelectors{
			item:     `article, .card, [class*="event"]`,
			title:    `h3, h2, .title, [class*="title"]`,
			location: `[class*="location"], [class*="venue"]`,
			desc:     `p, .description, [class*="desc"]`,
		},
	}
}
