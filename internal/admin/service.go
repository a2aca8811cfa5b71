// Package admin implements operator maintenance actions against the identity
// provider's admin API: inspecting, confirming, and removing user accounts.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wellnoosh/wellnoosh/internal/common"
	"github.com/wellnoosh/wellnoosh/internal/logging"
	"github.com/wellnoosh/wellnoosh/internal/provider"
)

// Service wraps the provider's admin surface with email-or-id resolution and
// logging. All operations require a service key on the underlying client.
type Service struct {
	admin provider.Admin
	log   logging.Logger
}

func New(admin provider.Admin, log logging.Logger) *Service {
	return &Service{admin: admin, log: log}
}

// ResolveUserID accepts either a user id or an email address and returns the
// user id. Emails match case-insensitively. Returns common.ErrNotFound when
// no account matches.
func (s *Service) ResolveUserID(ctx context.Context, emailOrID string) (string, error) {
	if _, err := uuid.Parse(emailOrID); err == nil {
		return emailOrID, nil
	}

	users, err := s.admin.ListUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("listing users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, emailOrID) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("user %q: %w", emailOrID, common.ErrNotFound)
}

func (s *Service) ListUsers(ctx context.Context) ([]provider.User, error) {
	return s.admin.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, emailOrID string) (*provider.User, error) {
	id, err := s.ResolveUserID(ctx, emailOrID)
	if err != nil {
		return nil, err
	}
	return s.admin.GetUserByID(ctx, id)
}

// ConfirmUser marks the account's email as confirmed, letting a user stuck
// behind a lost confirmation email sign in. Confirming an already confirmed
// account is a no-op.
func (s *Service) ConfirmUser(ctx context.Context, emailOrID string) (*provider.User, error) {
	id, err := s.ResolveUserID(ctx, emailOrID)
	if err != nil {
		return nil, err
	}

	confirm := true
	u, err := s.admin.UpdateUserByID(ctx, id, provider.UserAttributes{EmailConfirm: &confirm})
	if err != nil {
		return nil, fmt.Errorf("confirming user %s: %w", id, err)
	}
	s.log.Info(ctx, "user confirmed", "id", u.ID, "email", u.Email)
	return u, nil
}

// DeleteUser removes the account. Deleting an unknown account returns
// common.ErrNotFound.
func (s *Service) DeleteUser(ctx context.Context, emailOrID string) error {
	id, err := s.ResolveUserID(ctx, emailOrID)
	if err != nil {
		return err
	}

	if err := s.admin.DeleteUser(ctx, id); err != nil {
		var ae *provider.AuthError
		if errors.As(err, &ae) && ae.StatusCode == 404 {
			return fmt.Errorf("user %s: %w", id, common.ErrNotFound)
		}
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	s.log.Info(ctx, "user deleted", "id", id)
	return nil
}

// ResetPassword sets a new random password on the account and returns it so
// the operator can hand it to the user out of band.
func (s *Service) ResetPassword(ctx context.Context, emailOrID string) (string, error) {
	id, err := s.ResolveUserID(ctx, emailOrID)
	if err != nil {
		return "", err
	}

	password := common.GenerateRandString(12)

	if _, err := s.admin.UpdateUserByID(ctx, id, provider.UserAttributes{Password: &password}); err != nil {
		return "", fmt.Errorf("resetting password for %s: %w", id, err)
	}
	s.log.Info(ctx, "password reset", "id", id)
	return password, nil
}
