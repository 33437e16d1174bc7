package audit

import (
	"context"
	"sync"
	"time"

	"github.com/gaurav630/userhub/internal/models"
)

// InMemoryRepository is a mutex-guarded Repository used in tests.
type InMemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries []*models.AuditEntry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(ctx context.Context, userID *int64, action, details string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry := &models.AuditEntry{
		ID:        r.nextID,
		Action:    action,
		Details:   details,
		Timestamp: at,
	}
	if userID != nil {
		id := *userID
		entry.UserID = &id
	}
	r.entries = append(r.entries, entry)

	return nil
}

func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		e := *r.entries[i]
		result = append(result, &e)
	}

	return result, nil
}
