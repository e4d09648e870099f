// Package scrape implements the event-harvesting pipeline: per-site source
// adapters, normalization into canonical records, near-duplicate removal,
// and idempotent persistence, composed by the Harvester.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sydevents/internal/config"
	appLog "sydevents/internal/log"
	"sydevents/internal/model"
)

// Per-adapter timeout bounds. The selector wait is allowed to expire
// without failing the fetch.
const (
	navigationTimeout   = 30 * time.Second
	selectorWaitTimeout = 10 * time.Second
	fetchTimeout        = 15 * time.Second
)

// Source extracts listings from one external site. Fetch never panics past
// its boundary; a broken source degrades to an error the orchestrator
// records as zero yield.
type Source interface {
	Name() model.Source
	Fetch(ctx context.Context) ([]model.RawEvent, error)
}

// Options carries settings shared by all adapters.
type Options struct {
	UserAgent string
	// Horizon bounds how far ahead feed-based sources look.
	Horizon time.Duration
}

// FromConfig builds the adapter for a single source entry.
func FromConfig(c config.SourceConfig, opts Options) (Source, error) {
	switch c.Name {
	case "eventbrite":
		return newEventbriteSource(c, opts), nil
	case "timeout":
		return newTimeoutSource(c, opts), nil
	case "eventfinda":
		return newEventfindaSource(c, opts), nil
	case "sydney.com":
		return newSydneyComSource(c, opts), nil
	case "whatson":
		return newWhatsOnSource(c, opts), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", c.Name)
	}
}

// FromConfigs builds adapters for all enabled entries, logging and
// skipping unknown ones.
func FromConfigs(cfgs []config.SourceConfig, opts Options) []Source {
	out := make([]Source, 0, len(cfgs))
	for _, c := range cfgs {
		if !c.Enabled {
			continue
		}
		src, err := FromConfig(c, opts)
		if err != nil {
			appLog.Error("skipping source", err, "name", c.Name)
			continue
		}
		out = append(out, src)
	}
	return out
}

// slugFromURL derives the stable identifier an adapter assigns to a
// listing: the final path segment with any query stripped.
func slugFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	return segs[len(segs)-1]
}

// resolveURL resolves href against base, returning "" when no absolute URL
// can be formed.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
