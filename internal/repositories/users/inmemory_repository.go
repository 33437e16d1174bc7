package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gaurav630/userhub/internal/common"
	"github.com/gaurav630/userhub/internal/models"
)

// InMemoryRepository is a mutex-guarded Repository used in tests. It keeps
// the same semantics as the SQL schema: username/email uniqueness is checked
// and the row inserted under one lock, so concurrent Create calls with the
// same identifiers resolve to exactly one winner.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[int64]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, common.ErrDuplicate
		}
	}

	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored

	return cloneUser(stored), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.User, 0, len(r.byID))
	for _, user := range r.byID {
		result = append(result, cloneUser(user))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r *InMemoryRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	for _, existing := range r.byID {
		if existing.ID != id && existing.Email == email {
			return common.ErrDuplicate
		}
	}
	user.Email = email

	return nil
}

func (r *InMemoryRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	user.PasswordHash = passwordHash

	return nil
}

func (r *InMemoryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	user.IsActive = active

	return nil
}

func (r *InMemoryRepository) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	t := at
	user.LastLogin = &t

	return nil
}

func (r *InMemoryRepository) IncrementFailedAttempts(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	user.FailedLoginAttempts++

	return nil
}

func (r *InMemoryRepository) ResetFailedAttempts(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	user.FailedLoginAttempts = 0

	return nil
}
