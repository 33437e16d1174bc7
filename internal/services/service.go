// Package services implements the authentication/authorization core
// consumed in-process by the external UI/session layer. The core holds no
// per-user session state between calls: every protected operation takes the
// caller's token explicitly.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gaurav630/userhub/internal/auth"
	"github.com/gaurav630/userhub/internal/common"
	"github.com/gaurav630/userhub/internal/config"
	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/logging"
	"github.com/gaurav630/userhub/internal/rbac"
	"github.com/gaurav630/userhub/internal/repositories/repomanager"
)

// Audit action labels.
const (
	actionLoginSuccess    = "login_success"
	actionLoginFailed     = "login_failed"
	actionLogout          = "logout"
	actionUserRegistered  = "user_registered"
	actionUserCreated     = "user_created"
	actionPasswordChanged = "password_changed"
	actionEmailChanged    = "email_changed"
	actionUserEnabled     = "user_enabled"
	actionUserDisabled    = "user_disabled"
)

// Self-registration always assigns this role; callers cannot pick their own.
const defaultRegistrationRole = "User"

type UserService struct {
	db           *sql.DB
	rm           repomanager.Manager
	tokens       *auth.TokenService
	roles        rbac.Table
	logger       logging.Logger
	storeTimeout time.Duration
	validate     *validator.Validate
	now          func() time.Time
}

func NewUserService(rm repomanager.Manager, tokens *auth.TokenService, roles rbac.Table, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:           rm.Conn(),
		rm:           rm,
		tokens:       tokens,
		roles:        roles,
		logger:       logger,
		storeTimeout: cfg.StoreTimeout,
		validate:     validator.New(),
		now:          time.Now,
	}
}

// storeHandle is the DBTX repositories are bound to outside a transaction.
func (s *UserService) storeHandle() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

// withStore applies the store timeout and runs fn inside a transaction. The
// in-memory manager has no *sql.DB; its repositories serialize internally,
// so fn runs against the shared handle directly.
func (s *UserService) withStore(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if s.db == nil {
		return fn(ctx, nil)
	}

	return dbx.WithTx(ctx, s.db, nil, fn)
}

// declaredErrors are the kinds every public operation may return. Anything
// else coming back from the store layer is hidden behind
// common.ErrStoreUnavailable so raw driver errors never leak to callers.
var declaredErrors = []error{
	common.ErrNotFound,
	common.ErrDuplicate,
	common.ErrInvalidCredentials,
	common.ErrAccountDisabled,
	common.ErrPasswordMismatch,
	common.ErrTokenExpired,
	common.ErrInvalidToken,
	common.ErrForbidden,
	common.ErrValidation,
	common.ErrInternal,
}

func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range declaredErrors {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return common.ErrStoreUnavailable
}

// appendAudit records an audit entry outside the caller's transaction.
// Appends are best-effort: failures are logged and never propagated, so a
// broken audit table cannot fail the primary operation.
func (s *UserService) appendAudit(ctx context.Context, userID *int64, action, details string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()

	err := s.rm.Audit(s.storeHandle()).Append(ctx, userID, action, details, s.now().UTC())
	if err != nil {
		s.logger.Warn(ctx, "audit append failed", "action", action, "error", err.Error())
	}
}
