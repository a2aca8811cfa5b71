package config

import "time"

// Config holds runtime settings for the WellNoosh client.
//
// Fields:
//   - ProviderURL: base URL of the hosted identity provider.
//   - ProviderAnonKey: publishable API key sent with every provider request.
//   - DatabasePath: path of the local preferences database file.
//   - OAuthRedirectPort: loopback port the OAuth callback listener binds.
//   - RefreshInterval: how often the session watcher checks for staleness.
//   - RefreshMargin: how long before expiry a session counts as stale.
//   - DemoMode: run fully offline against the in-memory provider.
type Config struct {
	ProviderURL       string
	ProviderAnonKey   string
	DatabasePath      string
	OAuthRedirectPort int
	RefreshInterval   time.Duration
	RefreshMargin     time.Duration
	DemoMode          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ProviderURL = "http://127.0.0.1:9999"
	c.ProviderAnonKey = ""
	c.DatabasePath = "wellnoosh.db"
	c.OAuthRedirectPort = 8910
	c.RefreshInterval = 30 * time.Second
	c.RefreshMargin = time.Minute
	c.DemoMode = false
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
