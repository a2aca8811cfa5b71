package provider

import "context"

// Client is the auth surface of the identity provider consumed by the
// session orchestrator.
type Client interface {
	// SignUp creates an account. The result's Session is nil when the
	// provider wants email confirmation first.
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// RefreshSession trades a refresh token for a fresh session.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)

	// ExchangeCode completes a PKCE authorization-code flow.
	ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error)

	// SignOut revokes the session behind the given access token.
	SignOut(ctx context.Context, accessToken string) error
}

// Admin is the operator surface, available with a service key only.
type Admin interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateUserByID(ctx context.Context, id string, attrs UserAttributes) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
