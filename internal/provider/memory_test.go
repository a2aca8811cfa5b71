package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_SignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	res, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	require.True(t, res.User.Confirmed())

	s, err := m.SignInWithPassword(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, res.User.ID, s.User.ID)
	require.NotEmpty(t, s.AccessToken)
}

func TestMemoryProvider_SignUp_Duplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	_, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = m.SignUp(ctx, "A@B.com", "other")
	require.Error(t, err)
	require.True(t, IsAlreadyRegistered(err))
	require.Equal(t, "User already registered", err.Error())
}

func TestMemoryProvider_SignIn_WrongPassword(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	_, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = m.SignInWithPassword(ctx, "a@b.com", "wrong")
	require.True(t, IsInvalidCredentials(err))
	require.Equal(t, "Invalid login credentials", err.Error())
}

func TestMemoryProvider_NoAutoConfirm(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider(WithAutoConfirm(false))

	res, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	require.Nil(t, res.Session)

	_, err = m.SignInWithPassword(ctx, "a@b.com", "secret123")
	require.True(t, IsEmailNotConfirmed(err))

	// Admin confirmation unblocks sign-in.
	confirm := true
	_, err = m.UpdateUserByID(ctx, res.User.ID, UserAttributes{EmailConfirm: &confirm})
	require.NoError(t, err)

	s, err := m.SignInWithPassword(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestMemoryProvider_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	res, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	s2, err := m.RefreshSession(ctx, res.Session.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, res.Session.RefreshToken, s2.RefreshToken)

	// The consumed token is gone.
	_, err = m.RefreshSession(ctx, res.Session.RefreshToken)
	require.Error(t, err)
	require.True(t, IsAuthError(err))
}

func TestMemoryProvider_SignOutRevokesRefreshTokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	res, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, m.SignOut(ctx, res.Session.AccessToken))

	_, err = m.RefreshSession(ctx, res.Session.RefreshToken)
	require.Error(t, err)
}

func TestMemoryProvider_ExchangeCode(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	_, err := m.SignUp(ctx, "g@b.com", "secret123")
	require.NoError(t, err)

	m.RegisterAuthCode("g@b.com", "code-1", "verifier-1")

	_, err = m.ExchangeCode(ctx, "code-1", "bad-verifier")
	require.Error(t, err)

	// The failed attempt consumed nothing; plant again and succeed.
	m.RegisterAuthCode("g@b.com", "code-2", "verifier-2")
	s, err := m.ExchangeCode(ctx, "code-2", "verifier-2")
	require.NoError(t, err)
	require.Equal(t, "g@b.com", s.User.Email)
}

func TestMemoryProvider_TokenExpiryUsesClock(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	m := NewMemoryProvider(WithClock(func() time.Time { return base }), WithTokenTTL(30*time.Minute))

	res, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, base.Add(30*time.Minute).Unix(), res.Session.ExpiresAt)
}

func TestMemoryProvider_AdminLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	res, err := m.SignUp(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	got, err := m.GetUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", got.Email)

	newPw := "rotated-pw"
	_, err = m.UpdateUserByID(ctx, res.User.ID, UserAttributes{Password: &newPw})
	require.NoError(t, err)
	_, err = m.SignInWithPassword(ctx, "a@b.com", "rotated-pw")
	require.NoError(t, err)

	require.NoError(t, m.DeleteUser(ctx, res.User.ID))
	_, err = m.GetUserByID(ctx, res.User.ID)
	require.Error(t, err)
}
