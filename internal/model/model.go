package model

import "time"

// Source identifies where an event record came from. Manual records are
// created by admins through the API rather than by a harvest run.
type Source string

const (
	SourceEventbrite Source = "eventbrite"
	SourceTimeout    Source = "timeout"
	SourceEventfinda Source = "eventfinda"
	SourceSydneyCom  Source = "sydney.com"
	SourceWhatsOn    Source = "whatson"
	SourceManual     Source = "manual"
)

// RawEvent is the unnormalized shape a source adapter extracts from one
// listing. Title and SourceURL must be non-empty when emitted; everything
// else is best-effort and may be blank.
type RawEvent struct {
	Title     string
	SourceURL string

	ImageURL        string
	DateText        string // unparsed, as rendered by the site
	LocationText    string
	PriceText       string
	DescriptionText string

	// Source and ExternalID are stamped by the emitting adapter.
	// ExternalID is the stable slug derived from the listing URL; the
	// normalizer prefixes it with the source name.
	Source     Source
	ExternalID string
}

// Event is the canonical, persisted event record.
type Event struct {
	ID          string    `bson:"-" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Date        time.Time `bson:"date" json:"date"`
	Location    string    `bson:"location" json:"location"`
	Image       string    `bson:"image" json:"image"`
	Description string    `bson:"description" json:"description"`
	URL         string    `bson:"url" json:"url"`
	Source      Source    `bson:"source" json:"source"`
	ExternalID  string    `bson:"externalId,omitempty" json:"externalId,omitempty"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsUpcoming reports whether the event is in the future of now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

// EmailCapture stores an email submitted via the "Get Tickets" form,
// together with the event that prompted it.
type EmailCapture struct {
	ID         string    `bson:"-" json:"id"`
	Email      string    `bson:"email" json:"email"`
	EventID    string    `bson:"eventId" json:"eventId"`
	EventTitle string    `bson:"eventTitle" json:"eventTitle"`
	EventURL   string    `bson:"eventUrl" json:"eventUrl"`
	UserAgent  string    `bson:"userAgent,omitempty" json:"-"`
	IPAddress  string    `bson:"ipAddress,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// SourceYield is the per-source outcome of a harvest run.
type SourceYield struct {
	Source Source `json:"source"`
	Count  int    `json:"count"`
	Err    string `json:"error,omitempty"`
}

// HarvestSummary is the structured result of one harvest run. It is not
// persisted; the scheduler logs it and metrics are derived from it.
type HarvestSummary struct {
	RunID     string        `json:"runId"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`

	Sources []SourceYield `json:"sources"`
	Scraped int           `json:"scraped"` // total raw events across sources
	Unique  int           `json:"unique"`  // after dedup
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Failed  int           `json:"failed"` // per-item persistence failures
	Seeded  bool          `json:"seeded"` // seed fallback used

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
