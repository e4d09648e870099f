package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	appLog "sydevents/internal/log"
	"sydevents/internal/model"
)

// staticSelectors are the structural queries a static-page source uses to
// pick listing fields out of server-rendered HTML. Empty fields are
// simply not extracted.
type staticSelectors struct {
	item     string
	title    string
	date     string
	location string
	desc     string
	price    string
}

// staticSource harvests a source whose listings are present in the initial
// HTML: one bounded GET with a browser user-agent, then structural
// queries. Shared by the timeout, eventfinda, and sydney.com adapters.
type staticSource struct {
	name      model.Source
	url       string
	maxItems  int
	timeout   time.Duration
	userAgent string
	sel       staticSelectors
}

func (s *staticSource) Name() model.Source { return s.name }

func (s *staticSource) Fetch(ctx context.Context) ([]model.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(s.timeout)

	raws := make([]model.RawEvent, 0, s.maxItems)
	c.OnHTML(s.sel.item, func(e *colly.HTMLElement) {
		if len(raws) >= s.maxItems {
			return
		}

		title := firstText(e, s.sel.title)
		href, _ := e.DOM.Find("a").First().Attr("href")
		if title == "" || strings.TrimSpace(href) == "" {
			return
		}
		full := e.Request.AbsoluteURL(strings.TrimSpace(href))
		if full == "" {
			return
		}

		image, ok := e.DOM.Find("img").First().Attr("src")
		if !ok || image == "" {
			image, _ = e.DOM.Find("img").First().Attr("data-src")
		}

		raws = append(raws, model.RawEvent{
			Title:           title,
			SourceURL:       full,
			ImageURL:        strings.TrimSpace(image),
			DateText:        firstText(e, s.sel.date),
			LocationText:    firstText(e, s.sel.location),
			PriceText:       firstText(e, s.sel.price),
			DescriptionText: firstText(e, s.sel.desc),
			Source:          s.name,
			ExternalID:      slugFromURL(full),
		})
	})

	var fetchErr error
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(s.url); err != nil {
		return nil, fmt.Errorf("%s: visit %s: %w", s.name, s.url, err)
	}
	if fetchErr != nil && len(raws) == 0 {
		return nil, fmt.Errorf("%s: fetch %s: %w", s.name, s.url, fetchErr)
	}

	appLog.Info("static fetch completed", "source", s.name, "events", len(raws))
	return raws, nil
}

// firstText returns the trimmed text of the first element matching sel,
// mirroring the "first match wins" convention of the loose selectors.
func firstText(e *colly.HTMLElement, sel string) string {
	if sel == "" {
		return ""
	}
	return strings.TrimSpace(e.DOM.Find(sel).First().Text())
}
