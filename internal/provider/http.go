package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient talks to a GoTrue-style auth REST API. With an anon key it
// serves the Client interface; constructed with a service key it also
// serves Admin.
var (
	_ Client = (*HTTPClient)(nil)
	_ Admin  = (*HTTPClient)(nil)
)

type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client (timeouts, transport).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.http = c }
}

func NewHTTPClient(baseURL, apiKey string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one JSON request. A non-2xx reply is decoded into *AuthError
// carrying the provider's literal message.
func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
	}
	return nil
}

// decodeError maps the provider's error payload variants onto AuthError.
// The payload shape differs between endpoint families, so every known
// message field is tried in order.
func decodeError(status int, data []byte) error {
	var p struct {
		ErrorCode string `json:"error_code"`
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
		ErrorStr  string `json:"error"`
	}
	_ = json.Unmarshal(data, &p)

	msg := p.Msg
	for _, alt := range []string{p.Message, p.ErrorDesc, p.ErrorStr} {
		if msg == "" {
			msg = alt
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("provider request failed with status %d", status)
	}
	code := p.ErrorCode
	if code == "" {
		code = p.ErrorStr
	}
	return &AuthError{StatusCode: status, Code: code, Message: msg}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUpResponse covers both reply shapes of the signup endpoint: a session
// when the account is auto-confirmed, a bare user object otherwise.
type signUpResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`

	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	var resp signUpResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.AccessToken != "" && resp.User != nil {
		return &SignUpResult{
			User: resp.User,
			Session: &Session{
				AccessToken:  resp.AccessToken,
				TokenType:    resp.TokenType,
				RefreshToken: resp.RefreshToken,
				ExpiresIn:    resp.ExpiresIn,
				ExpiresAt:    resp.ExpiresAt,
				User:         *resp.User,
			},
		}, nil
	}

	// Confirmation pending: the endpoint returned the user object itself.
	return &SignUpResult{
		User: &User{
			ID:               resp.ID,
			Email:            resp.Email,
			EmailConfirmedAt: resp.EmailConfirmedAt,
			CreatedAt:        resp.CreatedAt,
		},
	}, nil
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		credentials{Email: email, Password: password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": refreshToken}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=pkce", "",
		map[string]string{"auth_code": authCode, "code_verifier": codeVerifier}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// AuthorizeURL builds the browser URL starting a federated OAuth flow via
// the provider, using the PKCE S256 method.
func (c *HTTPClient) AuthorizeURL(oauthProvider, redirectURI, codeChallenge string) string {
	q := url.Values{}
	q.Set("provider", oauthProvider)
	q.Set("redirect_to", redirectURI)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "s256")
	return c.baseURL + "/auth/v1/authorize?" + q.Encode()
}

// ---- Admin surface (service key required) ----

func (c *HTTPClient) ListUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *HTTPClient) GetUserByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(id), "", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateUserByID(ctx context.Context, id string, attrs UserAttributes) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(id), "", attrs, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), "", nil, nil)
}
