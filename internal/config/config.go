package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes a single external event source.
type SourceConfig struct {
	// Name selects the adapter implementation ("eventbrite", "timeout",
	// "eventfinda", "sydney.com", "whatson", "meetup").
	Name string `yaml:"name" json:"name"`
	// URL is the listing page (or ICS feed) to harvest.
	URL string `yaml:"url" json:"url"`
	// Enabled toggles the source without removing its entry.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// MaxItems caps how many extracted elements the adapter will process.
	MaxItems int `yaml:"max_items" json:"max_items"`
}

// MongoConfig holds document-store connection settings.
type MongoConfig struct {
	// URI is the connection string. The MONGO_URI environment variable
	// overrides it when set.
	URI string `yaml:"uri" json:"uri"`
	// Database name; collections are "events" and "email_captures".
	Database string `yaml:"database" json:"database"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the REST API.
	Listen string `yaml:"listen" json:"listen"`

	// MetricsListen is the address of the Prometheus /metrics listener.
	// Empty disables it.
	MetricsListen string `yaml:"metrics_listen" json:"metrics_listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// HarvestCron is a cron-style schedule for harvest runs.
	HarvestCron string `yaml:"harvest_cron" json:"harvest_cron"`

	// HorizonDays bounds how far ahead ICS feed expansion looks.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// UserAgent is sent on all outbound fetches. Sources reject the Go
	// default agent, so this must look like a real browser.
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	Mongo MongoConfig `yaml:"mongo" json:"mongo"`

	// Sources is the list of harvest sources.
	Sources []SourceConfig `yaml:"sources" json:"sources"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DefaultSources mirrors the aggregator's standing source list. Meetup is
// present but disabled: its listings sit behind API authentication.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "eventbrite", URL: "https://www.eventbrite.com.au/d/australia--sydney/events/", Enabled: true, MaxItems: 30},
		{Name: "timeout", URL: "https://www.timeout.com/sydney/things-to-do/whats-on-in-sydney-today", Enabled: true, MaxItems: 20},
		{Name: "eventfinda", URL: "https://www.eventfinda.com.au/whatson/events/sydney", Enabled: true, MaxItems: 20},
		{Name: "sydney.com", URL: "https://www.sydney.com/things-to-do/events", Enabled: true, MaxItems: 15},
		{Name: "whatson", URL: "https://whatson.cityofsydney.nsw.gov.au/events.ics", Enabled: true, MaxItems: 25},
		{Name: "meetup", URL: "https://www.meetup.com/find/?location=au--sydney", Enabled: false, MaxItems: 20},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "127.0.0.1:8080",
		MetricsListen: "127.0.0.1:9091",
		LogLevel:      "info",
		HarvestCron:   "0 */6 * * *",
		HorizonDays:   90,
		UserAgent:     defaultUserAgent,
		Mongo: MongoConfig{
			URI:      "mongodb://127.0.0.1:27017",
			Database: "sydevents",
		},
		Sources: DefaultSources(),
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HarvestCron == "" {
		c.HarvestCron = "0 */6 * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 90
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://127.0.0.1:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "sydevents"
	}
	if env := os.Getenv("MONGO_URI"); env != "" {
		c.Mongo.URI = env
	}
	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}
	for i := range c.Sources {
		if c.Sources[i].MaxItems <= 0 {
			c.Sources[i].MaxItems = 20
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there (0600)
//     and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sydevents-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
