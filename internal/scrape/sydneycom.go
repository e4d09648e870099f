package scrape

import (
	"sydevents/internal/config"
	"sydevents/internal/model"
)

// newSydneyComSource harvests the Sydney.com (Destination NSW) events page.
func newSydneyComSource(c config.SourceConfig, opts Options) *staticSource {
	return &staticSource{
		name:      model.SourceSydneyCom,
		url:       c.URL,
		maxItems:  c.MaxItems,
		timeout:   fetchTimeout,
		userAgent: opts.UserAgent,
		sel: staticSelectors{
			item:  `article, .event, .card, [class*="listing"]`,
			title: `h3, h2, h4, [class*="title"]`,
			desc:  `p, [class*="desc"]`,
		},
	}
}
