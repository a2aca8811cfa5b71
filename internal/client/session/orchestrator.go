package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wellnoosh/wellnoosh/internal/client/kv"
	"github.com/wellnoosh/wellnoosh/internal/client/oauth"
	"github.com/wellnoosh/wellnoosh/internal/common"
	"github.com/wellnoosh/wellnoosh/internal/logging"
	"github.com/wellnoosh/wellnoosh/internal/provider"
)

// GoogleFlow is the browser sign-in collaborator. *oauth.Flow implements it.
type GoogleFlow interface {
	Run(ctx context.Context) oauth.Result
}

// SignUpOutcome reports what account creation produced. Exactly one of the
// three shapes occurs: a live session, a pending email confirmation, or a
// sign-in into the pre-existing account.
type SignUpOutcome struct {
	Session             *provider.Session
	PendingConfirmation bool
	SignedInExisting    bool
}

// Orchestrator is the session/auth core. All session mutations funnel
// through applySession under one mutex, so observers see changes in apply
// order; no operation retries internally beyond the single documented
// sign-up fallback.
type Orchestrator struct {
	provider      provider.Client
	kv            kv.Store
	log           logging.Logger
	holder        *Holder
	google        GoogleFlow
	refreshMargin time.Duration
	now           func() time.Time

	mu          sync.Mutex
	initialized atomic.Bool
}

type Option func(*Orchestrator)

// WithGoogleFlow wires the federated sign-in collaborator.
func WithGoogleFlow(f GoogleFlow) Option {
	return func(o *Orchestrator) { o.google = f }
}

// WithRefreshMargin sets how long before expiry a token counts as stale.
func WithRefreshMargin(d time.Duration) Option {
	return func(o *Orchestrator) { o.refreshMargin = d }
}

// WithClock overrides the clock, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(p provider.Client, store kv.Store, log logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:      p,
		kv:            store,
		log:           log,
		holder:        NewHolder(),
		refreshMargin: time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sessions exposes the observable session value. Consumers key all UI
// transitions off this single current value.
func (o *Orchestrator) Sessions() *Holder {
	return o.holder
}

// Session returns the current session, nil when unauthenticated.
func (o *Orchestrator) Session() *provider.Session {
	return o.holder.Get()
}

// Initialized reports whether startup session restore has finished.
func (o *Orchestrator) Initialized() bool {
	return o.initialized.Load()
}

// Init restores a previously cached session. Faults are non-fatal: the app
// starts unauthenticated and the cause is logged. Initialized becomes true
// in every case.
func (o *Orchestrator) Init(ctx context.Context) {
	defer o.initialized.Store(true)

	data, err := o.kv.Get(ctx, common.KeySession)
	if err != nil {
		o.log.Warn(ctx, "session cache unreadable", "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var s provider.Session
	if err := json.Unmarshal(data, &s); err != nil {
		o.log.Warn(ctx, "session cache corrupt, discarding", "error", err)
		_ = o.kv.Delete(ctx, common.KeySession)
		return
	}

	if !o.stale(&s) {
		o.log.Info(ctx, "session restored", "user", s.User.Email)
		o.applySession(ctx, &s)
		return
	}

	refreshed, err := o.provider.RefreshSession(ctx, s.RefreshToken)
	if err != nil {
		if provider.IsAuthError(err) {
			o.log.Info(ctx, "cached session rejected by provider", "error", err)
			_ = o.kv.Delete(ctx, common.KeySession)
		} else {
			o.log.Warn(ctx, "session refresh failed", "error", err)
		}
		return
	}
	o.log.Info(ctx, "session refreshed on restore", "user", refreshed.User.Email)
	o.applySession(ctx, refreshed)
}

// SignUp creates an account. On the provider's duplicate-registration error
// it performs the single compensating sign-in attempt and stops there; the
// original sign-up error surfaces if that attempt fails too.
func (o *Orchestrator) SignUp(ctx context.Context, email, password string) (SignUpOutcome, error) {
	res, err := o.provider.SignUp(ctx, email, password)
	if err != nil {
		if provider.IsAlreadyRegistered(err) {
			o.log.Info(ctx, "email already registered, trying sign-in", "email", email)
			if signInErr := o.SignIn(ctx, email, password); signInErr == nil {
				return SignUpOutcome{Session: o.Session(), SignedInExisting: true}, nil
			}
			return SignUpOutcome{}, err
		}
		return SignUpOutcome{}, err
	}

	if res.Session == nil {
		// Provider wants email confirmation before issuing credentials.
		return SignUpOutcome{PendingConfirmation: true}, nil
	}

	o.applySession(ctx, res.Session)
	return SignUpOutcome{Session: res.Session}, nil
}

// SignIn exchanges credentials for a session. Provider failures surface
// verbatim and leave the current session untouched.
func (o *Orchestrator) SignIn(ctx context.Context, email, password string) error {
	s, err := o.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	o.applySession(ctx, s)
	return nil
}

// SignInWithGoogle delegates to the browser flow. Cancellation is a quiet
// no-op on the session.
func (o *Orchestrator) SignInWithGoogle(ctx context.Context) oauth.Result {
	if o.google == nil {
		return oauth.Result{Type: oauth.Failed, Err: errors.New("google sign-in is not configured")}
	}
	res := o.google.Run(ctx)
	if res.Type == oauth.Success {
		o.applySession(ctx, res.Session)
	}
	return res
}

// SignOut clears the local session first so the UI reacts immediately, then
// asks the provider to invalidate the credentials. Provider failures are
// logged, never surfaced: the local-first policy is deliberate.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	s := o.holder.Get()
	o.applySession(ctx, nil)

	if s != nil {
		if err := o.provider.SignOut(ctx, s.AccessToken); err != nil {
			o.log.Warn(ctx, "provider sign-out failed after local clear", "error", err)
		}
	}
	return nil
}

// StartRefreshWatcher renews the access token shortly before expiry and
// drops the session when the provider rejects the refresh (external
// sign-out). Blocks until ctx is done; run it on its own goroutine.
func (o *Orchestrator) StartRefreshWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.refreshIfStale(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (o *Orchestrator) refreshIfStale(ctx context.Context) {
	s := o.holder.Get()
	if s == nil || !o.stale(s) {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	refreshed, err := o.provider.RefreshSession(callCtx, s.RefreshToken)
	if err != nil {
		if provider.IsAuthError(err) {
			o.log.Info(ctx, "refresh rejected, signing out locally", "error", err)
			o.applySession(ctx, nil)
		} else {
			o.log.Warn(ctx, "token refresh failed, will retry", "error", err)
		}
		return
	}
	o.applySession(ctx, refreshed)
}

// applySession is the single mutation point for the session value: persists
// the cache, then notifies observers. Cache write failures are logged only;
// the in-memory session stays authoritative for this process.
func (o *Orchestrator) applySession(ctx context.Context, s *provider.Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if s == nil {
		if err := o.kv.Delete(ctx, common.KeySession); err != nil {
			o.log.Warn(ctx, "failed to clear session cache", "error", err)
		}
	} else {
		data, err := json.Marshal(s)
		if err == nil {
			err = o.kv.Set(ctx, common.KeySession, data)
		}
		if err != nil {
			o.log.Warn(ctx, "failed to cache session", "error", err)
		}
	}

	o.holder.Set(s)
}

// stale reports whether the session's access token expires within the
// refresh margin. The expiry claim is read without signature verification;
// the client holds no signing secret and only needs the timestamp.
func (o *Orchestrator) stale(s *provider.Session) bool {
	exp, ok := tokenExpiry(s)
	if !ok {
		return false
	}
	return !exp.After(o.now().Add(o.refreshMargin))
}

func tokenExpiry(s *provider.Session) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time, true
		}
	}
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0), true
	}
	return time.Time{}, false
}
