package config

import (
	"flag"
	"os"
	"time"

	"github.com/wellnoosh/wellnoosh/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the identity provider (default from Config)
//	-k string   provider publishable API key
//	-d string   path of the local preferences database
//	-p int      loopback port for the OAuth callback listener
//	-i int      session refresh check interval in seconds
//	-m int      refresh margin before token expiry in seconds
//	-demo       run offline against the in-memory provider
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-d", "-p", "-i", "-m", "-demo"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProviderURL, "a", cfg.ProviderURL, "base URL of the identity provider")
	fs.StringVar(&cfg.ProviderAnonKey, "k", cfg.ProviderAnonKey, "provider publishable API key")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local preferences database")
	fs.IntVar(&cfg.OAuthRedirectPort, "p", cfg.OAuthRedirectPort, "loopback port for the OAuth callback listener")
	refreshInterval := fs.Int("i", int(cfg.RefreshInterval.Seconds()), "session refresh check interval (in seconds)")
	refreshMargin := fs.Int("m", int(cfg.RefreshMargin.Seconds()), "refresh margin before token expiry (in seconds)")
	fs.BoolVar(&cfg.DemoMode, "demo", cfg.DemoMode, "run offline against the in-memory provider")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshInterval = time.Duration(*refreshInterval) * time.Second
	cfg.RefreshMargin = time.Duration(*refreshMargin) * time.Second
}
