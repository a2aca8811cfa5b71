package provider

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wellnoosh/wellnoosh/internal/common"
)

// MemoryProvider is an in-process identity provider. It backs demo mode
// (running the client without a configured backend) and the test suites.
// Error codes and messages mirror the real provider so callers cannot tell
// the difference.
var (
	_ Client = (*MemoryProvider)(nil)
	_ Admin  = (*MemoryProvider)(nil)
)

type MemoryProvider struct {
	mu            sync.Mutex
	users         map[string]*memoryUser // keyed by lower-cased email
	refreshTokens map[string]string      // refresh token -> user email
	authCodes     map[string]memoryAuthCode
	secret        []byte
	autoConfirm   bool
	tokenTTL      time.Duration
	now           func() time.Time
}

type memoryUser struct {
	user         User
	passwordHash []byte
}

type memoryAuthCode struct {
	email        string
	codeVerifier string
}

type MemoryOption func(*MemoryProvider)

// WithAutoConfirm controls whether sign-up issues a session immediately
// (true) or leaves the account pending email confirmation (false).
func WithAutoConfirm(v bool) MemoryOption {
	return func(m *MemoryProvider) { m.autoConfirm = v }
}

// WithTokenTTL sets the access token validity window.
func WithTokenTTL(d time.Duration) MemoryOption {
	return func(m *MemoryProvider) { m.tokenTTL = d }
}

// WithClock overrides the provider clock, for expiry tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryProvider) { m.now = now }
}

func NewMemoryProvider(opts ...MemoryOption) *MemoryProvider {
	m := &MemoryProvider{
		users:         make(map[string]*memoryUser),
		refreshTokens: make(map[string]string),
		authCodes:     make(map[string]memoryAuthCode),
		secret:        common.GenerateRandByteArray(32),
		autoConfirm:   true,
		tokenTTL:      time.Hour,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryProvider) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := m.users[key]; ok {
		return nil, &AuthError{StatusCode: 422, Code: CodeUserAlreadyExists, Message: "User already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	u := User{ID: uuid.NewString(), Email: email, CreatedAt: now}
	if m.autoConfirm {
		confirmedAt := now
		u.EmailConfirmedAt = &confirmedAt
	}
	m.users[key] = &memoryUser{user: u, passwordHash: hash}

	if !m.autoConfirm {
		userCopy := u
		return &SignUpResult{User: &userCopy}, nil
	}

	s, err := m.issueSessionLocked(key)
	if err != nil {
		return nil, err
	}
	userCopy := s.User
	return &SignUpResult{User: &userCopy, Session: s}, nil
}

func (m *MemoryProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	mu, ok := m.users[key]
	if !ok {
		return nil, &AuthError{StatusCode: 400, Code: CodeInvalidCredentials, Message: "Invalid login credentials"}
	}
	if err := bcrypt.CompareHashAndPassword(mu.passwordHash, []byte(password)); err != nil {
		return nil, &AuthError{StatusCode: 400, Code: CodeInvalidCredentials, Message: "Invalid login credentials"}
	}
	if !mu.user.Confirmed() {
		return nil, &AuthError{StatusCode: 400, Code: CodeEmailNotConfirmed, Message: "Email not confirmed"}
	}

	signedIn := m.now().UTC()
	mu.user.LastSignInAt = &signedIn
	return m.issueSessionLocked(key)
}

func (m *MemoryProvider) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.refreshTokens[refreshToken]
	if !ok {
		return nil, &AuthError{StatusCode: 400, Code: "refresh_token_not_found", Message: "Invalid Refresh Token: Refresh Token Not Found"}
	}
	delete(m.refreshTokens, refreshToken)
	return m.issueSessionLocked(key)
}

func (m *MemoryProvider) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.authCodes[authCode]
	if !ok || c.codeVerifier != codeVerifier {
		return nil, &AuthError{StatusCode: 400, Code: "flow_state_not_found", Message: "invalid flow state, no valid flow state found"}
	}
	delete(m.authCodes, authCode)
	return m.issueSessionLocked(strings.ToLower(c.email))
}

func (m *MemoryProvider) SignOut(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email, err := m.emailFromToken(accessToken)
	if err != nil {
		return &AuthError{StatusCode: 401, Code: "bad_jwt", Message: "invalid JWT"}
	}
	for tok, key := range m.refreshTokens {
		if key == email {
			delete(m.refreshTokens, tok)
		}
	}
	return nil
}

// RegisterAuthCode plants a PKCE code, as the browser leg of the OAuth flow
// would. Used by demo mode and flow tests.
func (m *MemoryProvider) RegisterAuthCode(email, code, codeVerifier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authCodes[code] = memoryAuthCode{email: email, codeVerifier: codeVerifier}
}

// issueSessionLocked mints a signed access token plus a rotating refresh
// token for the given user key. Caller holds m.mu.
func (m *MemoryProvider) issueSessionLocked(key string) (*Session, error) {
	mu, ok := m.users[key]
	if !ok {
		return nil, &AuthError{StatusCode: 404, Code: CodeUserNotFound, Message: "User not found"}
	}

	now := m.now()
	exp := now.Add(m.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   mu.user.ID,
		"email": mu.user.Email,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	m.refreshTokens[refresh] = key

	return &Session{
		AccessToken:  signed,
		TokenType:    "bearer",
		RefreshToken: refresh,
		ExpiresIn:    int64(m.tokenTTL.Seconds()),
		ExpiresAt:    exp.Unix(),
		User:         mu.user,
	}, nil
}

func (m *MemoryProvider) emailFromToken(accessToken string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	return strings.ToLower(email), nil
}

// ---- Admin surface ----

func (m *MemoryProvider) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]User, 0, len(m.users))
	for _, mu := range m.users {
		users = append(users, mu.user)
	}
	return users, nil
}

func (m *MemoryProvider) GetUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mu := m.findByIDLocked(id)
	if mu == nil {
		return nil, &AuthError{StatusCode: 404, Code: CodeUserNotFound, Message: "User not found"}
	}
	userCopy := mu.user
	return &userCopy, nil
}

func (m *MemoryProvider) UpdateUserByID(ctx context.Context, id string, attrs UserAttributes) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mu := m.findByIDLocked(id)
	if mu == nil {
		return nil, &AuthError{StatusCode: 404, Code: CodeUserNotFound, Message: "User not found"}
	}

	if attrs.Email != nil && !strings.EqualFold(*attrs.Email, mu.user.Email) {
		oldKey := strings.ToLower(mu.user.Email)
		newKey := strings.ToLower(*attrs.Email)
		if _, exists := m.users[newKey]; exists {
			return nil, &AuthError{StatusCode: 422, Code: CodeUserAlreadyExists, Message: "User already registered"}
		}
		mu.user.Email = *attrs.Email
		m.users[newKey] = mu
		delete(m.users, oldKey)
	}
	if attrs.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*attrs.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		mu.passwordHash = hash
	}
	if attrs.EmailConfirm != nil {
		if *attrs.EmailConfirm {
			confirmedAt := m.now().UTC()
			mu.user.EmailConfirmedAt = &confirmedAt
		} else {
			mu.user.EmailConfirmedAt = nil
		}
	}

	userCopy := mu.user
	return &userCopy, nil
}

func (m *MemoryProvider) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mu := m.findByIDLocked(id)
	if mu == nil {
		return &AuthError{StatusCode: 404, Code: CodeUserNotFound, Message: "User not found"}
	}
	delete(m.users, strings.ToLower(mu.user.Email))
	for tok, key := range m.refreshTokens {
		if key == strings.ToLower(mu.user.Email) {
			delete(m.refreshTokens, tok)
		}
	}
	return nil
}

func (m *MemoryProvider) findByIDLocked(id string) *memoryUser {
	for _, mu := range m.users {
		if mu.user.ID == id {
			return mu
		}
	}
	return nil
}
