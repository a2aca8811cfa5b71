// Command admin is the operator tool for WellNoosh user accounts. It talks
// to the identity provider's admin API and therefore needs the service key,
// never the publishable one.
//
// Configuration comes from the environment:
//
//	SUPABASE_URL          base URL of the identity provider
//	SUPABASE_SERVICE_KEY  service role key
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wellnoosh/wellnoosh/internal/admin"
	"github.com/wellnoosh/wellnoosh/internal/logging"
	"github.com/wellnoosh/wellnoosh/internal/provider"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "WellNoosh account administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUsersCmd())
	return root
}

// newService builds the admin service from the environment. Fails fast when
// either variable is missing so a half-configured run never reaches the API.
func newService() (*admin.Service, error) {
	url := os.Getenv("SUPABASE_URL")
	if url == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}
	key := os.Getenv("SUPABASE_SERVICE_KEY")
	if key == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY is not set")
	}

	client := provider.NewHTTPClient(url, key)
	return admin.New(client, logging.NewDefault(slog.LevelWarn)), nil
}
