package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaurav630/userhub/internal/common"
	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/models"
	"github.com/gaurav630/userhub/internal/password"
	"github.com/gaurav630/userhub/internal/rbac"
)

// accountInput bounds what we accept for new accounts. The password cap
// matches bcrypt's 72-byte input limit.
type accountInput struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// Register creates a self-service account. The role is always the default
// registration role; callers cannot pick their own.
func (s *UserService) Register(ctx context.Context, username, email, pass, confirm string) (int64, error) {
	if pass != confirm {
		return 0, common.ErrPasswordMismatch
	}

	if err := s.validate.Struct(accountInput{Username: username, Email: email, Password: pass}); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	if !s.roles.HasRole(defaultRegistrationRole) {
		s.logger.Error(ctx, "default registration role missing from role table", "role", defaultRegistrationRole)
		return 0, common.ErrInternal
	}

	details := fmt.Sprintf("username=%s role=%s", username, defaultRegistrationRole)
	return s.createAccount(ctx, username, email, pass, defaultRegistrationRole, actionUserRegistered, details)
}

// CreateUser creates an account on behalf of an operator holding ADD_USER.
// Unlike Register, the caller chooses the role, which must exist in the
// role-permission table.
func (s *UserService) CreateUser(ctx context.Context, token, username, email, pass, role string) (int64, error) {
	actorID, err := s.Authorize(ctx, token, rbac.PermissionAddUser)
	if err != nil {
		return 0, err
	}

	if !s.roles.HasRole(role) {
		return 0, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	if err := s.validate.Struct(accountInput{Username: username, Email: email, Password: pass}); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	details := fmt.Sprintf("username=%s role=%s created_by=%d", username, role, actorID)
	return s.createAccount(ctx, username, email, pass, role, actionUserCreated, details)
}

func (s *UserService) createAccount(ctx context.Context, username, email, pass, role, action, details string) (int64, error) {
	hash, err := password.Hash(pass)
	if err != nil {
		return 0, common.ErrInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}

	err = s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.rm.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return 0, mapStoreErr(err)
	}

	s.appendAudit(ctx, &user.ID, action, details)

	return user.ID, nil
}

// SetUserActive enables or disables an account on behalf of an operator
// holding EDIT_USER. Disabling takes effect on the next authorization check
// even for tokens issued earlier.
func (s *UserService) SetUserActive(ctx context.Context, token string, userID int64, active bool) error {
	actorID, err := s.Authorize(ctx, token, rbac.PermissionEditUser)
	if err != nil {
		return err
	}

	err = s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Users(tx).SetActive(ctx, userID, active)
	})
	if err != nil {
		return mapStoreErr(err)
	}

	action := actionUserDisabled
	if active {
		action = actionUserEnabled
	}
	s.appendAudit(ctx, &userID, action, fmt.Sprintf("changed_by=%d", actorID))

	return nil
}

// ChangePassword verifies the current password before accepting a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPass, newPass, confirm string) error {

	var user *models.User
	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.rm.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	if !password.Verify(currentPass, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	if newPass != confirm {
		return common.ErrPasswordMismatch
	}

	if err := s.validate.Var(newPass, "required,min=6,max=72"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	hash, err := password.Hash(newPass)
	if err != nil {
		return common.ErrInternal
	}

	err = s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Users(tx).UpdatePassword(ctx, userID, hash)
	})
	if err != nil {
		return mapStoreErr(err)
	}

	s.appendAudit(ctx, &userID, actionPasswordChanged, "")

	return nil
}

// ChangeEmail updates the user's email address, subject to the same
// uniqueness constraint as registration.
func (s *UserService) ChangeEmail(ctx context.Context, userID int64, newEmail string) error {
	if err := s.validate.Var(newEmail, "required,email"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Users(tx).UpdateEmail(ctx, userID, newEmail)
	})
	if err != nil {
		return mapStoreErr(err)
	}

	s.appendAudit(ctx, &userID, actionEmailChanged, fmt.Sprintf("email=%s", newEmail))

	return nil
}

// ListUsers returns every account, in insertion order. Requires VIEW_USERS.
func (s *UserService) ListUsers(ctx context.Context, token string) ([]*models.User, error) {
	if _, err := s.Authorize(ctx, token, rbac.PermissionViewUsers); err != nil {
		return nil, err
	}

	var result []*models.User
	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		all, err := s.rm.Users(tx).ListAll(ctx)
		if err != nil {
			return err
		}
		result = all
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return result, nil
}

// AuditTrail returns the most recent audit entries, newest first. Requires
// VIEW_LOGS.
func (s *UserService) AuditTrail(ctx context.Context, token string, limit int) ([]*models.AuditEntry, error) {
	if _, err := s.Authorize(ctx, token, rbac.PermissionViewLogs); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 100
	}

	var result []*models.AuditEntry
	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		entries, err := s.rm.Audit(tx).ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		result = entries
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return result, nil
}

// EnsureBootstrapUser seeds the privileged user on first initialization.
// The seeded account gets the role holding the ALL sentinel. A concurrent
// seed racing us is fine: the loser's duplicate error means the row exists.
func (s *UserService) EnsureBootstrapUser(ctx context.Context, username, email, pass string) error {
	role, ok := s.roles.RoleWithAll()
	if !ok {
		return fmt.Errorf("role table error: no role grants %q", rbac.PermissionAll)
	}

	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.rm.Users(tx).GetByUsername(ctx, username)
		return err
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return mapStoreErr(err)
	}

	details := fmt.Sprintf("username=%s role=%s bootstrap=true", username, role)
	_, err = s.createAccount(ctx, username, email, pass, role, actionUserCreated, details)
	if errors.Is(err, common.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "bootstrap user seeded", "username", username, "role", role)

	return nil
}

// ValidateStoredRoles checks every persisted user's role against the
// role-permission table. An unknown role is a data-integrity error that
// must abort startup, not surface per-request.
func (s *UserService) ValidateStoredRoles(ctx context.Context) error {
	var roles []string
	err := s.withStore(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		all, err := s.rm.Users(tx).ListAll(ctx)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{})
		for _, u := range all {
			if _, ok := seen[u.Role]; ok {
				continue
			}
			seen[u.Role] = struct{}{}
			roles = append(roles, u.Role)
		}
		return nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	if err := s.roles.Validate(roles); err != nil {
		return fmt.Errorf("role table error: %w", err)
	}

	return nil
}
