package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"sydevents/internal/config"
	appLog "sydevents/internal/log"
	"sydevents/internal/model"
)

// eventbriteSource harvests the Eventbrite Sydney listing. The result grid
// is populated by client-side script, so it drives headless Chromium
// instead of fetching the initial HTML.
type eventbriteSource struct {
	url       string
	maxItems  int
	userAgent string
}

func newEventbriteSource(c config.SourceConfig, opts Options) *eventbriteSource {
	return &eventbriteSource{
		url:       c.URL,
		maxItems:  c.MaxItems,
		userAgent: opts.UserAgent,
	}
}

func (s *eventbriteSource) Name() model.Source { return model.SourceEventbrite }

// eventbriteCard mirrors the object shape produced by the extraction
// script; chromedp unmarshals the evaluated JSON into it.
type eventbriteCard struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	DateText string `json:"dateText"`
	Location string `json:"location"`
	Price    string `json:"price"`
}

// Selectors are deliberately loose ([class*=...]) to survive the site's
// frequent class-name churn.
const eventbriteExtractJS = `(() => {
	const cards = document.querySelectorAll('[data-testid="search-event-card"]');
	const out = [];
	cards.forEach((el) => {
		const pick = (sel) => el.querySelector(sel);
		const titleEl = pick('h3, h2, [class*="title"]');
		const linkEl = pick('a');
		const imageEl = pick('img');
		const dateEl = pick('[class*="date"], time');
		const locationEl = pick('[class*="location"]');
		const priceEl = pick('[class*="price"]');
		out.push({
			title: titleEl ? titleEl.textContent.trim() : "",
			url: linkEl ? linkEl.href : "",
			image: imageEl ? (imageEl.src || imageEl.getAttribute("data-src") || "") : "",
			dateText: dateEl ? (dateEl.textContent.trim() || dateEl.getAttribute("datetime") || "") : "",
			location: locationEl ? locationEl.textContent.trim() : "",
			price: priceEl ? priceEl.textContent.trim() : "",
		});
	});
	return out;
})()`

func (s *eventbriteSource) Fetch(ctx context.Context) ([]model.RawEvent, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Bound the whole navigate/wait/extract sequence.
	runCtx, cancelRun := context.WithTimeout(browserCtx, navigationTimeout)
	defer cancelRun()

	var cards []eventbriteCard
	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(s.userAgent),
		chromedp.Navigate(s.url),
		waitVisibleQuiet(`[data-testid="search-results-list"]`, selectorWaitTimeout),
		chromedp.Evaluate(eventbriteExtractJS, &cards),
	}
	if err := chromedp.Run(runCtx, tasks); err != nil {
		return nil, fmt.Errorf("eventbrite: chromedp run: %w", err)
	}

	base, _ := url.Parse(s.url)
	raws := make([]model.RawEvent, 0, len(cards))
	for _, card := range cards {
		if len(raws) >= s.maxItems {
			break
		}
		title := strings.TrimSpace(card.Title)
		full := resolveURL(base, card.URL)
		if title == "" || full == "" {
			continue
		}
		raws = append(raws, model.RawEvent{
			Title:           title,
			SourceURL:       full,
			ImageURL:        strings.TrimSpace(card.Image),
			DateText:        card.DateText,
			LocationText:    card.Location,
			PriceText:       card.Price,
			DescriptionText: "",
			Source:          model.SourceEventbrite,
			ExternalID:      slugFromURL(full),
		})
	}

	appLog.Info("eventbrite fetch completed", "cards", len(cards), "events", len(raws))
	return raws, nil
}

// waitVisibleQuiet waits for sel up to timeout, then proceeds regardless.
// Listings are often usable before the marker shows, and the marker
// selector itself is a best-effort guess at uncontrolled markup.
func waitVisibleQuiet(sel string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := chromedp.WaitVisible(sel, chromedp.ByQuery).Do(waitCtx); err != nil {
			appLog.Debug("content marker wait expired", "selector", sel)
		}
		return nil
	})
}
