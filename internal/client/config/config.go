package config

import "time"

// Config holds runtime settings for the taxdesk CLI.
//
// Units: PollInterval, RequestTimeout and StatusInterval are time.Duration
// values (e.g. time.Second).
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	StatusInterval time.Duration
	LogFile        string
	LogLevel       string
	StartPath      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "taxdesk.db"
	c.PollInterval = time.Second
	c.RequestTimeout = 10 * time.Second
	c.StatusInterval = 30 * time.Second
	c.LogFile = "taxdesk.log"
	c.LogLevel = "info"
	c.StartPath = "/"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if one is named) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
