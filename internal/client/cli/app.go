package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/wellnoosh/wellnoosh/internal/client/config"
	"github.com/wellnoosh/wellnoosh/internal/client/kv"
	"github.com/wellnoosh/wellnoosh/internal/client/nav"
	"github.com/wellnoosh/wellnoosh/internal/client/oauth"
	"github.com/wellnoosh/wellnoosh/internal/client/prefs"
	"github.com/wellnoosh/wellnoosh/internal/client/session"
	"github.com/wellnoosh/wellnoosh/internal/logging"
	"github.com/wellnoosh/wellnoosh/internal/provider"
)

// App is the interactive client. It owns the session orchestrator, the local
// preference store, and the navigation decider, and implements nav.Navigator
// over its own REPL state.
type App struct {
	config   *config.Config
	log      logging.Logger
	store    kv.Store
	sessions *session.Orchestrator
	prefs    *prefs.Store
	decider  *nav.Decider
	reader   *bufio.Reader

	navMu sync.Mutex
	ready bool
	route nav.Route
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewDefault(slog.LevelWarn)

	var (
		store kv.Store
		prov  provider.Client
	)
	if c.DemoMode {
		store = kv.NewMemoryStore()
		prov = provider.NewMemoryProvider()
	} else {
		sqliteStore, err := kv.Open(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("opening preferences database: %w", err)
		}
		store = sqliteStore
		prov = provider.NewHTTPClient(c.ProviderURL, c.ProviderAnonKey)
	}

	app := &App{
		config: c,
		log:    log,
		store:  store,
		prefs:  prefs.NewStore(store, log),
		reader: bufio.NewReader(os.Stdin),
		route:  nav.RouteWelcome,
	}

	opts := []session.Option{
		session.WithRefreshMargin(c.RefreshMargin),
	}
	if httpProv, ok := prov.(*provider.HTTPClient); ok {
		flow := oauth.NewFlow(prov, httpProv, log, oauth.WithPort(c.OAuthRedirectPort))
		opts = append(opts, session.WithGoogleFlow(flow))
	}
	app.sessions = session.New(prov, store, log, opts...)
	app.decider = nav.NewDecider(app, log)

	return app, nil
}

// Ready, Current and Reset implement nav.Navigator over the REPL state.
// The REPL becomes Ready once its loop starts reading commands.
func (a *App) Ready() bool {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	return a.ready
}

func (a *App) Current() nav.Route {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	return a.route
}

func (a *App) Reset(r nav.Route) {
	a.navMu.Lock()
	a.route = r
	a.navMu.Unlock()

	switch r {
	case nav.RouteMainTabs:
		fmt.Println("Signed in.")
	case nav.RouteWelcome:
		fmt.Println("Signed out.")
	}
}

func (a *App) setReady(v bool) {
	a.navMu.Lock()
	a.ready = v
	a.navMu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Session() != nil
}

// Run restores the session, starts the refresh watcher, and enters the REPL.
// It blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	// Session changes drive navigation for the whole run.
	unsubscribe := a.sessions.Sessions().Subscribe(func(s *provider.Session) {
		a.decider.Evaluate(ctx, a.sessions.Initialized(), s)
	})
	defer unsubscribe()

	a.sessions.Init(ctx)

	go a.sessions.StartRefreshWatcher(ctx, a.config.RefreshInterval)

	a.setReady(true)
	// The restore decision fired before readiness and was dropped.
	a.decider.Evaluate(ctx, a.sessions.Initialized(), a.sessions.Session())

	a.Root(ctx)
}
