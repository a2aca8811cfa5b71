package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/wellnoosh/wellnoosh/internal/client/oauth"
	"github.com/wellnoosh/wellnoosh/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var validate = validator.New()

const minPasswordLen = 8

// promptCredentials reads and validates an email/password pair. Validation
// happens locally before any provider request goes out.
func (a *App) promptCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return "", nil, err
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return "", nil, fmt.Errorf("invalid email address: %s", email)
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", nil, err
	}
	if len(password) < minPasswordLen {
		common.WipeByteArray(password)
		return "", nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	return email, password, nil
}

// SignUp prompts for credentials and creates an account. When the provider
// requires email confirmation, the user is told to check their inbox; when
// the email already has an account with this password, they end up signed in.
func (a *App) SignUp(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		fmt.Println(err)
		return err
	}
	defer common.WipeByteArray(password)

	out, err := a.sessions.SignUp(ctx, email, string(password))
	if err != nil {
		fmt.Println("Sign-up failed:", err)
		return err
	}

	switch {
	case out.PendingConfirmation:
		fmt.Println("Account created. Check your email to confirm before signing in.")
	case out.SignedInExisting:
		fmt.Println("This email already had an account; you are now signed in.")
	default:
		fmt.Println("Success!")
	}
	return nil
}

// SignIn prompts for credentials and authenticates.
func (a *App) SignIn(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		fmt.Println(err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.SignIn(ctx, email, string(password)); err != nil {
		fmt.Println("Sign-in failed:", err)
		return err
	}
	return nil
}

// SignInWithGoogle runs the browser OAuth flow. Cancelling in the browser is
// not an error and prints nothing.
func (a *App) SignInWithGoogle(ctx context.Context) error {
	fmt.Println("Opening your browser to continue with Google...")

	res := a.sessions.SignInWithGoogle(ctx)
	switch res.Type {
	case oauth.Cancelled:
		return nil
	case oauth.Failed:
		fmt.Println("Google sign-in failed:", res.Err)
		return res.Err
	}
	return nil
}

// SignOut clears the local session. Provider-side revocation failures are
// not surfaced; locally the user is always signed out.
func (a *App) SignOut(ctx context.Context) error {
	return a.sessions.SignOut(ctx)
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI() {
	s := a.sessions.Session()
	if s == nil {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("Signed in as %s (id %s)\n", s.User.Email, s.User.ID)
}

// ClearData wipes the locally stored profile and completion markers. The
// session itself survives; use logout for that.
func (a *App) ClearData(ctx context.Context) error {
	if err := a.prefs.Clear(ctx); err != nil {
		fmt.Println("Clearing local data failed:", err)
		return err
	}
	fmt.Println("Local data cleared.")
	return nil
}
