package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaurav630/userhub/internal/common"
	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/models"
	"github.com/gaurav630/userhub/internal/password"
)

// Authenticate verifies the credentials and returns the user id and a fresh
// session token. Unknown usernames and wrong passwords are both reported as
// common.ErrInvalidCredentials so callers cannot probe which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, username, pass string) (int64, string, error) {

	var user *models.User
	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.rm.Users(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.appendAudit(ctx, nil, actionLoginFailed, fmt.Sprintf("unknown username %q", username))
			return 0, "", common.ErrInvalidCredentials
		}
		return 0, "", mapStoreErr(err)
	}

	if !user.IsActive {
		s.appendAudit(ctx, &user.ID, actionLoginFailed, "account disabled")
		return 0, "", common.ErrAccountDisabled
	}

	if !password.Verify(pass, user.PasswordHash) {
		incErr := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			return s.rm.Users(tx).IncrementFailedAttempts(ctx, user.ID)
		})
		if incErr != nil {
			s.logger.Warn(ctx, "failed to record failed login attempt", "user_id", user.ID, "error", incErr.Error())
		}
		s.appendAudit(ctx, &user.ID, actionLoginFailed, "invalid password")
		return 0, "", common.ErrInvalidCredentials
	}

	loginAt := s.now().UTC()
	err = s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)
		if err := repo.ResetFailedAttempts(ctx, user.ID); err != nil {
			return err
		}
		return repo.RecordLogin(ctx, user.ID, loginAt)
	})
	if err != nil {
		return 0, "", mapStoreErr(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "user_id", user.ID, "error", err.Error())
		return 0, "", common.ErrInternal
	}

	s.appendAudit(ctx, &user.ID, actionLoginSuccess, "")

	return user.ID, token, nil
}

// Authorize is the gate callers invoke before executing any protected
// operation. It re-verifies the token, reloads the user (who may have been
// deleted or deactivated since issuance), and consults the role-permission
// table. On success it returns the acting user's id.
func (s *UserService) Authorize(ctx context.Context, token, permission string) (int64, error) {

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}

	var user *models.User
	err = s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.rm.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return 0, mapStoreErr(err)
	}

	if !user.IsActive {
		return 0, common.ErrAccountDisabled
	}

	if !s.roles.Grants(user.Role, permission) {
		return 0, common.ErrForbidden
	}

	return userID, nil
}

// Logout records the audit event for an explicit logout. Tokens are
// self-contained, so the server cannot invalidate one before its natural
// expiry; the caller is expected to discard it.
func (s *UserService) Logout(ctx context.Context, token string) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return
	}
	s.appendAudit(ctx, &userID, actionLogout, "")
}
