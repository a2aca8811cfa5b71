// Package provider contains the client for the external identity/backend
// service that owns authentication and account storage. Only the
// session-shaped results are consumed by the rest of the application;
// provider internals stay behind the Client and Admin interfaces.
package provider

import "time"

// User is the provider's view of an account.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
}

// Confirmed reports whether the user's email address has been verified.
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// Session is the credential bundle issued by the provider. It is treated as
// opaque by consumers; only the orchestrator inspects its tokens.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// SignUpResult is the outcome of account creation. Session is nil when the
// provider requires email confirmation before issuing credentials.
type SignUpResult struct {
	User    *User
	Session *Session
}

// UserAttributes carries the mutable account fields for admin updates.
// Nil fields are left unchanged.
type UserAttributes struct {
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	EmailConfirm *bool   `json:"email_confirm,omitempty"`
}
