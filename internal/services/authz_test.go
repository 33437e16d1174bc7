package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav630/userhub/internal/auth"
	"github.com/gaurav630/userhub/internal/common"
	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/models"
	"github.com/gaurav630/userhub/internal/rbac"
	"github.com/gaurav630/userhub/internal/repositories/repomanager"
	"github.com/gaurav630/userhub/internal/repositories/users"
)

func registerAndLogin(t *testing.T, s *UserService, username string) (int64, string) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Register(ctx, username, username+"@example.com", "passw0rd", "passw0rd")
	require.NoError(t, err)

	id, token, err := s.Authenticate(ctx, username, "passw0rd")
	require.NoError(t, err)
	return id, token
}

func rootLogin(t *testing.T, s *UserService) (int64, string) {
	t.Helper()
	seedRoot(t, s)

	id, token, err := s.Authenticate(context.Background(), "root", "root123")
	require.NoError(t, err)
	return id, token
}

// --- authorize ---

func TestAuthorize_GrantedAndForbidden(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())
	ctx := context.Background()

	id, token := registerAndLogin(t, s, "alice")

	// the default registration role can see its own profile...
	gotID, err := s.Authorize(ctx, token, rbac.PermissionViewProfile)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	// ...but not the user list
	_, err = s.Authorize(ctx, token, rbac.PermissionViewUsers)
	require.ErrorIs(t, err, common.ErrForbidden)
}

func TestAuthorize_DeactivatedAfterIssue(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	id, token := registerAndLogin(t, s, "alice")

	// the token is still cryptographically valid, but the account check
	// happens on every call
	require.NoError(t, rm.Users(nil).SetActive(ctx, id, false))

	_, err := s.Authorize(ctx, token, rbac.PermissionViewProfile)
	require.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestAuthorize_ExpiredToken(t *testing.T) {
	current := time.Now()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Minute,
		auth.WithTimeFunc(func() time.Time { return current }))
	s, _ := newTestService(t, tokens)
	ctx := context.Background()

	_, token := registerAndLogin(t, s, "alice")

	current = current.Add(2 * time.Minute)

	_, err := s.Authorize(ctx, token, rbac.PermissionViewProfile)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestAuthorize_InvalidToken(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())

	_, err := s.Authorize(context.Background(), "garbage", rbac.PermissionViewProfile)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	// token signed with a different secret
	other := auth.NewTokenService([]byte("other-secret"), time.Hour)
	forged, err := other.Issue(1)
	require.NoError(t, err)

	_, err = s.Authorize(context.Background(), forged, rbac.PermissionViewProfile)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

// --- bootstrap ---

func TestBootstrapUser_HasAllPermissions(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())
	ctx := context.Background()

	_, token := rootLogin(t, s)

	for _, perm := range []string{
		rbac.PermissionViewUsers,
		rbac.PermissionAddUser,
		rbac.PermissionDeleteUser,
		rbac.PermissionViewLogs,
		"SOME_FUTURE_PERMISSION",
	} {
		_, err := s.Authorize(ctx, token, perm)
		require.NoError(t, err, "permission %s", perm)
	}
}

func TestEnsureBootstrapUser_Idempotent(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	seedRoot(t, s)
	seedRoot(t, s)

	all, err := rm.Users(nil).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "root", all[0].Username)
	assert.Equal(t, "Root", all[0].Role)
}

// --- admin operations ---

func TestCreateUser_AdminFlow(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	_, token := rootLogin(t, s)

	id, err := s.CreateUser(ctx, token, "manager1", "manager1@example.com", "passw0rd", "Manager")
	require.NoError(t, err)

	user, err := rm.Users(nil).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Manager", user.Role)
	assert.True(t, user.IsActive)
}

func TestCreateUser_UnknownRole(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())

	_, token := rootLogin(t, s)

	_, err := s.CreateUser(context.Background(), token, "bob", "bob@example.com", "passw0rd", "Superuser")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateUser_Forbidden(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())

	_, token := registerAndLogin(t, s, "alice")

	_, err := s.CreateUser(context.Background(), token, "bob", "bob@example.com", "passw0rd", "User")
	require.ErrorIs(t, err, common.ErrForbidden)
}

func TestSetUserActive(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	_, token := rootLogin(t, s)
	targetID, _ := registerAndLogin(t, s, "alice")

	require.NoError(t, s.SetUserActive(ctx, token, targetID, false))
	assert.Equal(t, actionUserDisabled, lastAuditAction(t, rm))

	_, _, err := s.Authenticate(ctx, "alice", "passw0rd")
	require.ErrorIs(t, err, common.ErrAccountDisabled)

	require.NoError(t, s.SetUserActive(ctx, token, targetID, true))
	assert.Equal(t, actionUserEnabled, lastAuditAction(t, rm))

	_, _, err = s.Authenticate(ctx, "alice", "passw0rd")
	require.NoError(t, err)
}

func TestListUsers_RequiresPermission(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())
	ctx := context.Background()

	_, userToken := registerAndLogin(t, s, "alice")
	_, rootToken := rootLogin(t, s)

	_, err := s.ListUsers(ctx, userToken)
	require.ErrorIs(t, err, common.ErrForbidden)

	all, err := s.ListUsers(ctx, rootToken)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestAuditTrail_RequiresPermission(t *testing.T) {
	s, _ := newTestService(t, defaultTokens())
	ctx := context.Background()

	_, userToken := registerAndLogin(t, s, "alice")
	_, rootToken := rootLogin(t, s)

	_, err := s.AuditTrail(ctx, userToken, 10)
	require.ErrorIs(t, err, common.ErrForbidden)

	entries, err := s.AuditTrail(ctx, rootToken, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	// newest first: the last recorded event is root's login
	assert.Equal(t, actionLoginSuccess, entries[0].Action)
}

// --- profile updates ---

func TestChangePassword(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	id, _ := registerAndLogin(t, s, "alice")

	err := s.ChangePassword(ctx, id, "wrong-current", "newpassw0rd", "newpassw0rd")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	err = s.ChangePassword(ctx, id, "passw0rd", "newpassw0rd", "different")
	require.ErrorIs(t, err, common.ErrPasswordMismatch)

	err = s.ChangePassword(ctx, id, "passw0rd", "short", "short")
	require.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, s.ChangePassword(ctx, id, "passw0rd", "newpassw0rd", "newpassw0rd"))
	assert.Equal(t, actionPasswordChanged, lastAuditAction(t, rm))

	_, _, err = s.Authenticate(ctx, "alice", "passw0rd")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, _, err = s.Authenticate(ctx, "alice", "newpassw0rd")
	require.NoError(t, err)
}

func TestChangeEmail(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	id, _ := registerAndLogin(t, s, "alice")
	_, err := s.Register(ctx, "bob", "bob@example.com", "passw0rd", "passw0rd")
	require.NoError(t, err)

	require.ErrorIs(t, s.ChangeEmail(ctx, id, "not-an-email"), common.ErrValidation)
	require.ErrorIs(t, s.ChangeEmail(ctx, id, "bob@example.com"), common.ErrDuplicate)

	require.NoError(t, s.ChangeEmail(ctx, id, "alice2@example.com"))
	assert.Equal(t, actionEmailChanged, lastAuditAction(t, rm))

	user, err := rm.Users(nil).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", user.Email)
}

// --- startup integrity ---

func TestValidateStoredRoles(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	registerAndLogin(t, s, "alice")
	require.NoError(t, s.ValidateStoredRoles(ctx))

	_, err := rm.Users(nil).Create(ctx, &models.User{
		Username:     "legacy",
		Email:        "legacy@example.com",
		PasswordHash: "x",
		Role:         "Wizard",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	err = s.ValidateStoredRoles(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wizard")
}

// --- store failures ---

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connection refused")

// failingUsers wraps a real repository but makes reads fail with a raw
// driver-level error, which callers must never see verbatim.
type failingUsers struct {
	users.Repository
}

func (f failingUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, errConnRefused
}

func (f failingUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, errConnRefused
}

// failingManager delegates everything except the users repository.
type failingManager struct {
	repomanager.Manager
}

func (m failingManager) Users(db dbx.DBTX) users.Repository {
	return failingUsers{Repository: m.Manager.Users(db)}
}

func TestStoreFailure_MappedToStoreUnavailable(t *testing.T) {
	s, rm := newTestService(t, defaultTokens())
	ctx := context.Background()

	registerAndLogin(t, s, "alice")

	// swap in user reads that fail at the driver level
	s.rm = failingManager{Manager: rm}

	_, _, err := s.Authenticate(ctx, "alice", "passw0rd")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.NotContains(t, err.Error(), "connection refused")

	_, err = s.Authorize(ctx, "ignored-after-verify", rbac.PermissionViewProfile)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
