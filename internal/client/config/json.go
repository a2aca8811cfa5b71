package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/wellnoosh/wellnoosh/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals are
// plain integer seconds. After parsing, values are copied into the runtime
// Config (which uses time.Duration).
type JsonConfig struct {
	ProviderURL       string `json:"provider_url"`
	ProviderAnonKey   string `json:"provider_anon_key"`
	DatabasePath      string `json:"database_path"`
	OAuthRedirectPort int    `json:"oauth_redirect_port"`
	RefreshInterval   int    `json:"refresh_interval"`
	RefreshMargin     int    `json:"refresh_margin"`
	DemoMode          bool   `json:"demo_mode"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JSONConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; fields absent from the
//     file keep their current values.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ProviderURL != "" {
		cfg.ProviderURL = jc.ProviderURL
	}
	if jc.ProviderAnonKey != "" {
		cfg.ProviderAnonKey = jc.ProviderAnonKey
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OAuthRedirectPort != 0 {
		cfg.OAuthRedirectPort = jc.OAuthRedirectPort
	}
	if jc.RefreshInterval != 0 {
		cfg.RefreshInterval = time.Duration(jc.RefreshInterval) * time.Second
	}
	if jc.RefreshMargin != 0 {
		cfg.RefreshMargin = time.Duration(jc.RefreshMargin) * time.Second
	}
	if jc.DemoMode {
		cfg.DemoMode = true
	}
}
