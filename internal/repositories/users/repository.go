// Package users persists user records. The SQL implementation relies on the
// schema's UNIQUE constraints so that duplicate detection and insert are a
// single atomic operation.
package users

import (
	"context"
	"time"

	"github.com/gaurav630/userhub/internal/models"
)

type Repository interface {
	// Create inserts a new user and fills in the assigned id. Returns
	// common.ErrDuplicate when username or email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// ListAll returns all users in stable insertion order.
	ListAll(ctx context.Context) ([]*models.User, error)

	// UpdateEmail returns common.ErrDuplicate when email is taken and
	// common.ErrNotFound when no such user exists.
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// SetActive enables or disables an account. Disabled accounts are
	// denied authentication and authorization.
	SetActive(ctx context.Context, id int64, active bool) error

	RecordLogin(ctx context.Context, id int64, at time.Time) error
	IncrementFailedAttempts(ctx context.Context, id int64) error
	ResetFailedAttempts(ctx context.Context, id int64) error
}
