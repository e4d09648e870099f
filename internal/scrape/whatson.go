package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sydevents/internal/config"
	"sydevents/internal/ics"
	appLog "sydevents/internal/log"
	"sydevents/internal/model"
)

// whatsOnSource harvests a public iCalendar feed (the City of Sydney
// "What's On" calendar). Feed entries inside the harvest horizon become
// raw events; recurring entries are expanded per occurrence.
type whatsOnSource struct {
	url      string
	maxItems int
	horizon  time.Duration
	fetcher  *ics.Fetcher
	now      func() time.Time
}

func newWhatsOnSource(c config.SourceConfig, opts Options) *whatsOnSource {
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = 90 * 24 * time.Hour
	}
	return &whatsOnSource{
		url:      c.URL,
		maxItems: c.MaxItems,
		horizon:  horizon,
		fetcher:  ics.NewFetcher(fetchTimeout, opts.UserAgent),
		now:      time.Now,
	}
}

func (s *whatsOnSource) Name() model.Source { return model.SourceWhatsOn }

func (s *whatsOnSource) Fetch(ctx context.Context) ([]model.RawEvent, error) {
	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("whatson: %w", err)
	}

	parsed, err := ics.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("whatson: %w", err)
	}

	now := s.now()
	occs := ics.Expand(parsed, ics.ExpandConfig{
		RangeStart: now,
		RangeEnd:   now.Add(s.horizon),
	})

	raws := make([]model.RawEvent, 0, s.maxItems)
	for _, occ := range occs {
		if len(raws) >= s.maxItems {
			break
		}
		title := strings.TrimSpace(occ.Summary)
		if title == "" {
			continue
		}

		srcURL := strings.TrimSpace(occ.URL)
		if srcURL == "" {
			// The feed itself is the only stable URL for this entry.
			srcURL = s.url + "#" + url.QueryEscape(occ.UID)
		}

		raws = append(raws, model.RawEvent{
			Title:     title,
			SourceURL: srcURL,
			// RFC3339 so the normalizer's direct parse resolves it.
			DateText:        occ.Start.Format(time.RFC3339),
			LocationText:    occ.Location,
			DescriptionText: occ.Description,
			Source:          model.SourceWhatsOn,
			ExternalID:      feedExternalID(occ),
		})
	}

	appLog.Info("whatson fetch completed", "entries", len(parsed), "occurrences", len(occs), "events", len(raws))
	return raws, nil
}

// feedExternalID keys one occurrence: the UID alone would collapse every
// instance of a recurring entry onto a single record.
func feedExternalID(occ ics.Occurrence) string {
	return occ.UID + "_" + occ.Start.Format("20060102")
}
