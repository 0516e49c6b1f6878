// Package config handles configuration for the client: defaults, an
// optional JSON overlay, and command-line flags, in that order of
// precedence.
package config

import "time"

// Config holds runtime settings for the FinApp client.
//
// Fields:
//   - ServerBaseURL: base URL of the account service.
//   - LocalDBPath: path of the local SQLite session cache.
//   - SplashMinDisplay: minimum time the splash screen stays visible,
//     regardless of how fast session resumption completes.
type Config struct {
	ServerBaseURL    string
	LocalDBPath      string
	SplashMinDisplay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.LocalDBPath = "finapp.db"
	c.SplashMinDisplay = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
