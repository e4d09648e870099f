package scrape

import (
	"time"

	"sydevents/internal/model"
)

// seedSpec is one hand-authored fallback event; dates are day offsets from
// harvest time so the seed set stays presentable no matter when every
// external source happens to be unreachable.
type seedSpec struct {
	title       string
	days        int
	hour        int
	location    string
	image       string
	description string
	url         string
	externalID  string
}

var seedSpecs = []seedSpec{
	{
		title:       "Sydney Harbour Bridge Climb Experience",
		days:        14, hour: 10,
		location:    "Sydney Harbour Bridge, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1506973035872-a4ec16b8e8d9",
		description: "Experience breathtaking views of Sydney from the iconic Harbour Bridge. A guided climb suitable for all fitness levels.",
		url:         "https://www.bridgeclimb.com/",
		externalID:  "sample_bridge_climb",
	},
	{
		title:       "Vivid Sydney Festival",
		days:        19, hour: 18,
		location:    "Circular Quay, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1533174072545-7a4b6ad7a6c3",
		description: "Annual festival of light, music, and ideas transforming Sydney into a creative canvas of innovation and inspiration.",
		url:         "https://www.vividsydney.com/",
		externalID:  "sample_vivid_sydney",
	},
	{
		title:       "Sydney Food Festival - Bondi Beach",
		days:        24, hour: 12,
		location:    "Bondi Beach, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1555939594-58d7cb561ad1",
		description: "Celebrate Sydney's diverse culinary scene with food stalls, cooking demos, and live entertainment by the beach.",
		url:         "https://www.eventbrite.com.au/d/australia--sydney/food-festival/",
		externalID:  "sample_food_festival",
	},
	{
		title:       "Sydney Opera House Concert - Classical Night",
		days:        30, hour: 19,
		location:    "Sydney Opera House, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1524368535928-5b5e00ddc76b",
		description: "Experience world-class orchestral performance in the iconic Sydney Opera House. Featuring Mozart and Beethoven.",
		url:         "https://www.sydneyoperahouse.com/events.html",
		externalID:  "sample_opera_concert",
	},
	{
		title:       "Sydney Tech Meetup - AI & Machine Learning",
		days:        34, hour: 18,
		location:    "Tech Hub, Barangaroo, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1531482615713-2afd69097998",
		description: "Join Sydney's tech community for talks on AI, ML, and the future of technology. Networking and refreshments included.",
		url:         "https://www.meetup.com/find/?location=au--sydney&source=EVENTS",
		externalID:  "sample_tech_meetup",
	},
	{
		title:       "Coastal Walk & Picnic - Manly to Spit",
		days:        37, hour: 9,
		location:    "Manly Beach, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1506905925346-21bda4d32df4",
		description: "Guided coastal walk from Manly to Spit Bridge. Enjoy stunning views, native wildlife, and a beachside picnic.",
		url:         "https://www.eventbrite.com.au/d/australia--sydney/walks/",
		externalID:  "sample_coastal_walk",
	},
	{
		title:       "Sydney Startup Weekend",
		days:        39, hour: 9,
		location:    "Stone & Chalk, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1559136555-9303baea8ebd",
		description: "54-hour weekend event where entrepreneurs and aspiring entrepreneurs pitch ideas, form teams, and launch startups.",
		url:         "https://www.eventbrite.com.au/d/australia--sydney/startup-weekend/",
		externalID:  "sample_startup_weekend",
	},
	{
		title:       "Christmas Market at The Rocks",
		days:        44, hour: 10,
		location:    "The Rocks, Sydney NSW",
		image:       "https://images.unsplash.com/photo-1482818817648-c000317eb062",
		description: "Festive Christmas market featuring local artisans, food vendors, live music, and holiday cheer in historic The Rocks.",
		url:         "https://www.therocks.com/whats-on/",
		externalID:  "sample_christmas_market",
	},
}

// SeedEvents returns the fixed fallback set of canonical events used when
// every source yields nothing. Seeds are authored canonical records and
// bypass the normalizer.
func SeedEvents(now time.Time) []model.Event {
	out := make([]model.Event, 0, len(seedSpecs))
	for _, s := range seedSpecs {
		d := now.AddDate(0, 0, s.days)
		out = append(out, model.Event{
			Title:       s.title,
			Date:        time.Date(d.Year(), d.Month(), d.Day(), s.hour, 0, 0, 0, time.UTC),
			Location:    s.location,
			Image:       s.image,
			Description: s.description,
			URL:         s.url,
			Source:      model.SourceManual,
			ExternalID:  s.externalID,
			IsActive:    true,
		})
	}
	return out
}
