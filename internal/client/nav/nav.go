// Package nav decides which navigation stack the client shows based on the
// current auth state, and resets the navigator only when the decision
// actually changes the destination.
package nav

import (
	"context"
	"sync"

	"github.com/wellnoosh/wellnoosh/internal/logging"
	"github.com/wellnoosh/wellnoosh/internal/provider"
)

// Route names a top-level navigation destination.
type Route string

const (
	RouteWelcome  Route = "Welcome"
	RouteMainTabs Route = "MainTabs"
)

// State is the coarse auth state navigation decisions are made from.
type State int

const (
	// Uninitialized means session restore has not finished yet. No
	// navigation decision is made in this state.
	Uninitialized State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Navigator is the minimal surface the decider drives. The client app
// implements it over its screen stack.
type Navigator interface {
	// Ready reports whether the navigator can accept a reset. Decisions
	// made before readiness are dropped, not queued; the next state
	// change re-evaluates from scratch.
	Ready() bool
	// Current returns the route currently at the root of the stack.
	Current() Route
	// Reset replaces the whole stack with the given route.
	Reset(Route)
}

// Decider maps auth state changes onto navigator resets. It is safe for
// concurrent use; evaluations are serialized so two simultaneous session
// updates cannot interleave their reset decisions.
type Decider struct {
	nav Navigator
	log logging.Logger

	mu sync.Mutex
}

func NewDecider(nav Navigator, log logging.Logger) *Decider {
	return &Decider{nav: nav, log: log}
}

// Classify derives the auth state from initialization progress and the
// current session. A session never yields Authenticated before
// initialization finished.
func Classify(initialized bool, session *provider.Session) State {
	if !initialized {
		return Uninitialized
	}
	if session == nil {
		return Unauthenticated
	}
	return Authenticated
}

// Evaluate applies the state derived from (initialized, session) to the
// navigator. Resets are idempotent: if the stack already shows the route
// the state calls for, nothing happens.
func (d *Decider) Evaluate(ctx context.Context, initialized bool, session *provider.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := Classify(initialized, session)
	if state == Uninitialized {
		return
	}

	if !d.nav.Ready() {
		d.log.Debug(ctx, "navigator not ready, dropping decision", "state", state.String())
		return
	}

	target := RouteWelcome
	if state == Authenticated {
		target = RouteMainTabs
	}

	if d.nav.Current() == target {
		return
	}

	d.log.Info(ctx, "navigation reset", "state", state.String(), "route", string(target))
	d.nav.Reset(target)
}
