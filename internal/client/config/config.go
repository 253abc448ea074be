// Package config handles configuration for the CharKeeper client, layering
// defaults, an optional JSON file, and command-line flags.
package config

import "time"

// Config holds runtime settings for the CharKeeper client.
//
// Fields:
//   - ServerBaseURL: base URL of the sync server's HTTP API.
//   - DataDir: directory for the local collection documents.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DebounceInterval: quiet period before a coalesced local write.
type Config struct {
	ServerBaseURL       string
	DataDir             string
	OnlineCheckInterval time.Duration
	DebounceInterval    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DataDir = "charkeeper-data"
	c.OnlineCheckInterval = 3 * time.Second
	c.DebounceInterval = 500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
