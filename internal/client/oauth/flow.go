// Package oauth runs the federated sign-in flow: it opens the provider's
// authorize URL in the system browser and completes the PKCE code exchange
// through a loopback redirect listener.
package oauth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wellnoosh/wellnoosh/internal/common"
	"github.com/wellnoosh/wellnoosh/internal/logging"
	"github.com/wellnoosh/wellnoosh/internal/provider"
)

type ResultType int

const (
	Success ResultType = iota
	Cancelled
	Failed
)

// Result is the outcome of a browser sign-in attempt. Cancellation is not an
// error: Err stays nil and callers must not alert the user.
type Result struct {
	Type    ResultType
	Session *provider.Session
	Err     error
}

// callback carries the query parameters delivered to the redirect listener.
type callback struct {
	code    string
	errCode string
	errDesc string
}

// Flow drives one federated sign-in. Safe to reuse across attempts; each Run
// generates a fresh PKCE verifier and listener.
type Flow struct {
	client  provider.Client
	auth    AuthorizeURLer
	log     logging.Logger
	port    int
	openURL func(string) error
}

// AuthorizeURLer builds the provider's browser URL for a federated flow.
// *provider.HTTPClient implements it.
type AuthorizeURLer interface {
	AuthorizeURL(oauthProvider, redirectURI, codeChallenge string) string
}

type Option func(*Flow)

// WithPort fixes the loopback listener port; 0 picks an ephemeral one.
// OAuth apps with a registered redirect URI need a fixed port.
func WithPort(port int) Option {
	return func(f *Flow) { f.port = port }
}

// WithBrowserOpener overrides how the authorize URL is opened.
func WithBrowserOpener(open func(string) error) Option {
	return func(f *Flow) { f.openURL = open }
}

func NewFlow(client provider.Client, auth AuthorizeURLer, log logging.Logger, opts ...Option) *Flow {
	f := &Flow{client: client, auth: auth, log: log, openURL: openBrowser}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run executes the Google sign-in flow and blocks until the browser leg
// completes, the user cancels, or ctx is done.
func (f *Flow) Run(ctx context.Context) Result {
	verifier := common.GenerateRandString(48)
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.port))
	if err != nil {
		return Result{Type: Failed, Err: fmt.Errorf("start redirect listener: %w", err)}
	}

	results := make(chan callback, 1)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/callback", func(c *gin.Context) {
		cb := callback{
			code:    c.Query("code"),
			errCode: c.Query("error"),
			errDesc: c.Query("error_description"),
		}
		if cb.errCode != "" {
			c.String(http.StatusOK, "Sign-in was not completed. You can close this window.")
		} else {
			c.String(http.StatusOK, "Sign-in complete. You can close this window.")
		}
		select {
		case results <- cb:
		default:
		}
	})

	srv := &http.Server{Handler: router}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	redirectURI := fmt.Sprintf("http://%s/callback", ln.Addr().String())
	authorizeURL := f.auth.AuthorizeURL("google", redirectURI, challenge)

	f.log.Debug(ctx, "opening browser for federated sign-in", "redirect", redirectURI)
	if err := f.openURL(authorizeURL); err != nil {
		return Result{Type: Failed, Err: fmt.Errorf("open browser: %w", err)}
	}

	select {
	case <-ctx.Done():
		return Result{Type: Cancelled}
	case cb := <-results:
		return f.complete(ctx, cb, verifier)
	}
}

func (f *Flow) complete(ctx context.Context, cb callback, verifier string) Result {
	if cb.errCode == "access_denied" {
		return Result{Type: Cancelled}
	}
	if cb.errCode != "" {
		msg := cb.errDesc
		if msg == "" {
			msg = cb.errCode
		}
		return Result{Type: Failed, Err: errors.New(msg)}
	}
	if cb.code == "" {
		return Result{Type: Failed, Err: errors.New("no authorization code received")}
	}

	s, err := f.client.ExchangeCode(ctx, cb.code, verifier)
	if err != nil {
		return Result{Type: Failed, Err: err}
	}
	return Result{Type: Success, Session: s}
}
