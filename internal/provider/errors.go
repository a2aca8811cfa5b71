package provider

import (
	"errors"
	"strings"
)

// Error codes reported by the provider. The message text reaches the user
// verbatim; the codes exist so callers can branch without string matching.
const (
	CodeUserAlreadyExists  = "user_already_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailNotConfirmed  = "email_not_confirmed"
	CodeOverRequestRate    = "over_request_rate_limit"
	CodeUserNotFound       = "user_not_found"
)

// AuthError is a failure reported by the identity provider. Message holds the
// provider's literal text and must be surfaced to the caller unchanged.
type AuthError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}

func authError(err error) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsAlreadyRegistered reports whether err is the provider's duplicate
// registration rejection. Older provider versions carry no machine code, so
// the known message text is matched as a fallback.
func IsAlreadyRegistered(err error) bool {
	ae := authError(err)
	if ae == nil {
		return false
	}
	return ae.Code == CodeUserAlreadyExists ||
		strings.Contains(strings.ToLower(ae.Message), "already registered")
}

// IsInvalidCredentials reports whether err is a bad email/password rejection.
func IsInvalidCredentials(err error) bool {
	ae := authError(err)
	if ae == nil {
		return false
	}
	return ae.Code == CodeInvalidCredentials ||
		strings.Contains(strings.ToLower(ae.Message), "invalid login credentials")
}

// IsEmailNotConfirmed reports whether err means the account exists but the
// address is unverified.
func IsEmailNotConfirmed(err error) bool {
	ae := authError(err)
	if ae == nil {
		return false
	}
	return ae.Code == CodeEmailNotConfirmed ||
		strings.Contains(strings.ToLower(ae.Message), "email not confirmed")
}

// IsRateLimited reports whether the provider is throttling requests.
func IsRateLimited(err error) bool {
	ae := authError(err)
	if ae == nil {
		return false
	}
	return ae.Code == CodeOverRequestRate || ae.StatusCode == 429
}

// IsAuthError reports whether err was reported by the provider (as opposed
// to a transport failure).
func IsAuthError(err error) bool {
	return authError(err) != nil
}
